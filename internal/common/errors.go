// Package common defines shared constants and sentinel errors used across
// the server and client layers. Callers should use errors.Is to match these
// values; errors.As exposes the user-visible message of a DomainError.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// DomainError pairs a sentinel kind with a message that is safe to show to
// API callers.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Kind }

// NewValidationError reports missing or malformed input.
func NewValidationError(msg string) error {
	return &DomainError{Kind: ErrorValidation, Message: msg}
}

// NewNotFoundError reports a missing resource. Ownership mismatches use the
// same error so that existence is not observable across owners.
func NewNotFoundError(msg string) error {
	return &DomainError{Kind: ErrorNotFound, Message: msg}
}

// NewConflictError reports a duplicate unique key.
func NewConflictError(msg string) error {
	return &DomainError{Kind: ErrorConflict, Message: msg}
}

// NewAuthError reports bad credentials or an unusable session token.
func NewAuthError(msg string) error {
	return &DomainError{Kind: ErrorUnauthorized, Message: msg}
}

// Message returns the user-visible message carried by err, or fallback when
// err is not a DomainError.
func Message(err error, fallback string) string {
	var de *DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
