package tool

import "errors"

// ErrToolExists is returned when a tool name is registered twice.
var ErrToolExists = errors.New("tool already registered")

// ArgumentError reports a mismatch between the supplied arguments and a
// tool's schema: a missing required argument, an unexpected argument, or
// a value of the wrong type. The dispatcher maps it to an "invalid
// arguments" envelope rather than an internal error.
type ArgumentError struct {
	Detail string
}

func (e *ArgumentError) Error() string { return e.Detail }
