package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrNoResolveFn indicates the Lua chunk defines no resolve function.
	ErrNoResolveFn = errors.New("lua chunk does not define resolve(buf)")

	// ErrResolverClosed indicates the Lua resolver was already closed.
	ErrResolverClosed = errors.New("lua resolver is closed")

	// ErrWatcherClosed indicates the watcher was already closed.
	ErrWatcherClosed = errors.New("config watcher is closed")
)

// ParseError describes a failure parsing a configuration file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string

	// Message describes the parse failure.
	Message string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValueError describes a configuration key whose value was rejected.
// The key keeps the value from the next layer down.
type ValueError struct {
	Key     string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	return fmt.Sprintf("config key %q: %s (got %v)", e.Key, e.Message, e.Value)
}
