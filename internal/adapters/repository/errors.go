package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("player not found")
	ErrInvalidLimit  = errors.New("invalid ranking limit")
	ErrStaleSnapshot = errors.New("snapshot version not newer than published")
	ErrNilSnapshot   = errors.New("nil snapshot")
)
