package ingest

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrReadSnapshot   = errors.New("read snapshot failed")
	ErrDecodeSnapshot = errors.New("decode snapshot failed")
	ErrEmptySnapshot  = errors.New("snapshot contains no users")
)
