// Package common defines shared constants and sentinel errors used across
// the inscription client. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Auth errors. ErrAuthRequired means no bearer token is held; authenticated
	// calls must fail with it before any network I/O. ErrSessionExpired means
	// a token is held but its expiry has already passed.
	ErrAuthRequired   = errors.New("authentication required")
	ErrSessionExpired = errors.New("session expired")

	// Picker errors.
	ErrPickCancelled = errors.New("file selection cancelled")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")
)

// ServerError carries a non-2xx response whose message body is surfaced to
// the user verbatim (the backend speaks French to its users).
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (status %d)", e.StatusCode)
	}
	return e.Message
}

// ValidationError reports a file rejected client-side before any upload
// attempt, either for size or for MIME type.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
