package config

import "errors"

// ErrInvalidConfig is returned when configuration validation fails.
// The wrapped message names the offending field.
var ErrInvalidConfig = errors.New("config: invalid configuration")
