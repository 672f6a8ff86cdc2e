package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnknownLayout is returned for a layout name with no schema.
	ErrUnknownLayout = errors.New("unknown dump layout")
)

// MalformedRowError reports a field that could not be converted.
type MalformedRowError struct {
	Path  string
	Line  int
	Field string
	Value string
	Err   error
}

func (e *MalformedRowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s:%d: malformed %s %q: %v", e.Path, e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s:%d: malformed %s %q", e.Path, e.Line, e.Field, e.Value)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }
