package recompute

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from
// callers.
var (
	// ErrPublish means the atomic snapshot swap could not complete.
	// The previous snapshot stays authoritative and the run may be
	// retried with the same batch.
	ErrPublish = errors.New("snapshot publish failed")

	// ErrSource means the batch could not be fetched at all; nothing
	// was folded.
	ErrSource = errors.New("match source unavailable")
)
