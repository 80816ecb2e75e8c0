package redispub

import "errors"

// Domain-specific errors for Redis publishing.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConnectionFailed is returned when the initial connection attempt fails.
	ErrConnectionFailed = errors.New("redispub: connection failed")

	// ErrNotConnected is returned when the server is unreachable.
	ErrNotConnected = errors.New("redispub: not connected")

	// ErrPublishFailed is returned when a publish operation fails.
	ErrPublishFailed = errors.New("redispub: publish failed")

	// ErrInvalidChannel is returned when an empty channel name is provided.
	ErrInvalidChannel = errors.New("redispub: channel cannot be empty")
)
