package config

import (
	"errors"
	"strings"
)

// Error causes. A returned *Error wraps one of these or an error from the
// package that interpreted the value.
var (
	ErrMissingKey   = errors.New("missing required key")
	ErrWrongType    = errors.New("wrong type")
	ErrUnknownKey   = errors.New("unknown key")
	ErrVariantCount = errors.New("exactly one variant required")
)

// Error is a configuration error with the key path at which it occurred.
type Error struct {
	Path []string
	Err  error
}

func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return "config: " + e.Err.Error()
	}
	return "config: " + strings.Join(e.Path, ".") + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
