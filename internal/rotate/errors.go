package rotate

import "errors"

// Error kinds surfaced to the driver. Every failure in the engine wraps
// exactly one of these, so callers can classify with errors.Is.
var (
	// ErrRead reports an unrecoverable input failure.
	ErrRead = errors.New("cannot read input")

	// ErrWrite reports a failed or short write to the active file or the
	// tee output.
	ErrWrite = errors.New("cannot write")

	// ErrRotation reports a failure of sync, rename, or re-open inside
	// the rotation sequence.
	ErrRotation = errors.New("rotation failed")
)

// Option validation errors.
var (
	ErrPathEmpty    = errors.New("file path cannot be empty")
	ErrLimitZero    = errors.New("size limit must be > 0")
	ErrDepthInvalid = errors.New("num-rotate must be >= 1")
)
