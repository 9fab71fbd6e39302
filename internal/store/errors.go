package store

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrNotFound = errors.New("aggregate not found")
	ErrIO       = errors.New("persistence failure")
)
