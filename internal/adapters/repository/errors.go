package repository

import "errors"

// Sentinel kinds for assignment store errors.
var (
	ErrNotFound = errors.New("assignment not found")
	ErrEmptyID  = errors.New("assignment id must not be empty")
)
