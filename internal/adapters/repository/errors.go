package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoSnapshot   = errors.New("no snapshot loaded")
)
