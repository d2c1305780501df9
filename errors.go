package haven

import (
	"errors"
	"fmt"
)

// Common errors returned by the Haven engine.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("store is closed")

	// ErrMissingUserID is returned by write operations without a user.
	ErrMissingUserID = errors.New("user id is required")

	// ErrInvalidMood is returned when a mood value is off the 1-10 scale.
	ErrInvalidMood = errors.New("mood value must be between 1 and 10")

	// ErrEmptyContent is returned when required text input is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrGeneratorUnavailable is returned when no generative backend is
	// configured and a caller asks for one explicitly.
	ErrGeneratorUnavailable = errors.New("generative text service not configured")
)

// ValidationError is returned for malformed input at an entry boundary or
// for invalid configuration. The message is user-facing.
// Extractable via errors.As().
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// GenerateError is returned when a generative-text call fails. The composer
// never surfaces it to callers; it routes to the deterministic fallback and
// is recorded by the debug logger. Supports Unwrap().
type GenerateError struct {
	Model string
	Err   error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("generate: model %s: %v", e.Model, e.Err)
}

func (e *GenerateError) Unwrap() error { return e.Err }

// NotifyError is returned when a care-team alert delivery fails.
// Supports Unwrap().
type NotifyError struct {
	StatusCode int
	Err        error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify: alert failed (status %d): %v", e.StatusCode, e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }
