// Package errors provides domain-specific error types and sentinel errors
// shared across the intent pipeline, the dispatcher and its collaborators.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrServiceUnavailable indicates an external collaborator (embedding
	// index, dialog engine, booking API) could not be reached.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrMissingParameter indicates a required intent parameter is missing.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrUnknownIntent indicates the dispatcher has no handler for an intent.
	ErrUnknownIntent = errors.New("unknown intent")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRoleDenied indicates the session role is not allowed to perform the operation.
	ErrRoleDenied = errors.New("role not permitted")

	// ErrBookingConflict indicates the booking API rejected a slot as already taken.
	ErrBookingConflict = errors.New("slot already booked")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ScraperError represents web scraping failures with context.
type ScraperError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ScraperError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("scraper error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("scraper error (url=%s): %v", e.URL, e.Err)
}

func (e *ScraperError) Unwrap() error {
	return e.Err
}

// NewScraperError creates a new scraper error.
func NewScraperError(url string, statusCode int, err error) *ScraperError {
	return &ScraperError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}
