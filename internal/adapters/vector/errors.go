package vector

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmbedding = errors.New("embedding service failed")
	ErrIndex     = errors.New("vector index unavailable")

	// ErrBadInput marks a failure caused by the query itself, such as text
	// the embedding model rejects. Retrying the same input cannot succeed.
	ErrBadInput = errors.New("invalid query input")
)
