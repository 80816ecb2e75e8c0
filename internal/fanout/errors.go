package fanout

import "errors"

// ErrInvalidLimit is returned when ForEach is called with a limit below 1.
var ErrInvalidLimit = errors.New("fanout: limit must be at least 1")
