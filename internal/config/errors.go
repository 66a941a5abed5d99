package config

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by configuration operations.
var (
	// ErrUnsupportedFormat indicates a config file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrValidationFailed indicates the merged configuration is invalid.
	ErrValidationFailed = errors.New("validation failed")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldError is a single invalid setting.
type FieldError struct {
	// Path is the dot-separated setting path, e.g. "view.zoom_max".
	Path string
	// Rule is the failed constraint, e.g. "gt".
	Rule string
	// Param is the constraint argument, if any.
	Param string
	// Value is the offending value.
	Value any
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: must satisfy %s=%s (got %v)", e.Path, e.Rule, e.Param, e.Value)
	}
	return fmt.Sprintf("%s: must satisfy %s (got %v)", e.Path, e.Rule, e.Value)
}

// ValidationErrors collects every invalid setting.
type ValidationErrors struct {
	Errors []*FieldError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}
