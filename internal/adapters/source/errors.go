package source

import "errors"

// Sentinel kinds for source errors.
var (
	// ErrUnavailable means the batch could not be fetched; the run
	// must abort without touching the published state.
	ErrUnavailable = errors.New("match source unavailable")
)
