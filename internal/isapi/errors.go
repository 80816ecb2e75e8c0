package isapi

import "errors"

// Domain-specific errors for device protocol operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrRequestFailed covers transport failures, timeouts, and non-200
	// responses. The wrapped message carries the underlying cause.
	ErrRequestFailed = errors.New("isapi: request failed")

	// ErrBadDocument is returned when a response body is not well-formed XML
	// or a known message kind is missing required elements.
	ErrBadDocument = errors.New("isapi: unexpected document shape")
)
