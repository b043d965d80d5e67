package errors

import (
	"errors"
	"fmt"
)

// Application-specific errors
var (
	ErrEmptyBatch         = errors.New("no complaints to analyze")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrRateLimit          = errors.New("rate limit exceeded")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error `json:"errors"`
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.Errors[0].Error(), len(e.Errors)-1)
}

// Add adds an error to the MultiError
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (e *MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (e MultiError) Unwrap() []error {
	return e.Errors
}

// LexiconError reports a lexicon that could not be loaded or failed validation
type LexiconError struct {
	Source string
	Err    error
}

func (e LexiconError) Error() string {
	return fmt.Sprintf("lexicon error from %s: %v", e.Source, e.Err)
}

func (e LexiconError) Unwrap() error {
	return e.Err
}

// IngestError reports uploaded data that could not be decoded into complaints
type IngestError struct {
	Format  string
	Message string
	Err     error
}

func (e IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s ingest error: %s: %v", e.Format, e.Message, e.Err)
	}
	return fmt.Sprintf("%s ingest error: %s", e.Format, e.Message)
}

func (e IngestError) Unwrap() error {
	return e.Err
}

// DatabaseError represents a database-related error
type DatabaseError struct {
	Operation string
	Err       error
}

func (e DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Operation, e.Err)
}

func (e DatabaseError) Unwrap() error {
	return e.Err
}
