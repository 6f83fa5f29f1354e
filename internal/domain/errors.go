package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotNumerica is wrapped by FormatError when the sentinel line is missing.
	ErrNotNumerica = errors.New("not a recognized Numerica document")

	// ErrEmptyData is wrapped by EmptyDataError.
	ErrEmptyData = errors.New("document has no data points")

	// ErrGridConfiguration is wrapped by GridConfigurationError.
	ErrGridConfiguration = errors.New("invalid grid configuration")
)

// FormatError reports input that is not a Numerica document at all.
type FormatError struct {
	Filename string
}

func (e *FormatError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s: %v", e.Filename, ErrNotNumerica)
	}
	return ErrNotNumerica.Error()
}

func (e *FormatError) Unwrap() error { return ErrNotNumerica }

// ParseError reports a required field whose value could not be coerced to
// its declared type. Line is 1-based.
type ParseError struct {
	Line  int
	Key   string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: parse %s %q: %v", e.Line, e.Key, truncate(e.Value, 64), e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyDataError reports a derived query run against a document without points.
type EmptyDataError struct {
	Query string
}

func (e *EmptyDataError) Error() string {
	return fmt.Sprintf("%s: %v", e.Query, ErrEmptyData)
}

func (e *EmptyDataError) Unwrap() error { return ErrEmptyData }

// GridConfigurationError reports missing or invalid grid metadata.
type GridConfigurationError struct {
	Key    string
	Reason string
}

func (e *GridConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrGridConfiguration, e.Key, e.Reason)
}

func (e *GridConfigurationError) Unwrap() error { return ErrGridConfiguration }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}
