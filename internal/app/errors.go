package service

import "errors"

// ErrNotStarted is returned when an operation runs before Start.
var ErrNotStarted = errors.New("service not started")
