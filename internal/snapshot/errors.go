package snapshot

import "errors"

// Domain-specific errors for snapshot rendering.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDecodeFailed is returned when a device snapshot is not a readable
	// image.
	ErrDecodeFailed = errors.New("snapshot: decoding snapshot failed")

	// ErrEncodeFailed is returned when the composed raster cannot be written
	// back out in the snapshot's format.
	ErrEncodeFailed = errors.New("snapshot: encoding image failed")

	// ErrBadDimensions is returned for a requested size that collapses to
	// zero or negative pixels.
	ErrBadDimensions = errors.New("snapshot: invalid output dimensions")
)
