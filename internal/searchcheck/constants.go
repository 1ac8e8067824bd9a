package searchcheck

// HTTP status code constants.
const (
	StatusOK         = 200
	StatusBadRequest = 400
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Scoring bounds used by the invariant checks.
const (
	MaxDisplayScore      = 100.0
	PercentageMultiplier = 100
)
