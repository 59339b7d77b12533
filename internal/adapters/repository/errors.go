package repository

import "errors"

// Sentinel kinds for prospect board errors.
var (
	ErrNotFound     = errors.New("player not found")
	ErrInvalidLimit = errors.New("invalid board limit")
)
