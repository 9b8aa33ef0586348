package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_MatchesKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		msg  string
	}{
		{"validation", NewValidationError("Survey is not active"), ErrorValidation, "Survey is not active"},
		{"not found", NewNotFoundError("Survey not found"), ErrorNotFound, "Survey not found"},
		{"conflict", NewConflictError("email exists"), ErrorConflict, "email exists"},
		{"auth", NewAuthError("invalid credentials"), ErrorUnauthorized, "invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))
			assert.Equal(t, tt.msg, tt.err.Error())

			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.kind))
			assert.Equal(t, tt.msg, Message(wrapped, "fallback"))
		})
	}
}

func TestDomainError_EmptyMessageFallsBackToKind(t *testing.T) {
	err := &DomainError{Kind: ErrorNotFound}
	assert.Equal(t, "not found", err.Error())
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestMessage_PlainError(t *testing.T) {
	assert.Equal(t, "generic", Message(errors.New("db down"), "generic"))
}
