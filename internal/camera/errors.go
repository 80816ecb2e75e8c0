package camera

import "errors"

// Domain-specific errors for engine operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDeviceNotFound is returned when an operation names a device id that
	// discovery never produced.
	ErrDeviceNotFound = errors.New("camera: device not found")
)
