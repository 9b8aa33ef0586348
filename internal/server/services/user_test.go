package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister_HashesPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Register(ctx, "a@x.com", "s3cret", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "s3cret", string(u.PasswordHash))
	assert.NoError(t, bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("s3cret")))
}

func TestRegister_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, tc := range []struct{ email, password, name string }{
		{"", "p", "n"},
		{"e@x.com", "", "n"},
		{"e@x.com", "p", "  "},
	} {
		_, err := e.users.Register(ctx, tc.email, tc.password, tc.name)
		assert.ErrorIs(t, err, common.ErrorValidation)
	}

	_, err := e.users.Register(ctx, "e@x.com", strings.Repeat("x", 80), "n")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.users.Register(ctx, "a@x.com", "p", "A")
	require.NoError(t, err)
	_, err = e.users.Register(ctx, "a@x.com", "q", "B")
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.users.Register(ctx, "a@x.com", "right", "A")
	require.NoError(t, err)

	_, _, wrongPassword := e.users.Login(ctx, "a@x.com", "wrong")
	_, _, noSuchUser := e.users.Login(ctx, "ghost@x.com", "right")

	require.Error(t, wrongPassword)
	require.Error(t, noSuchUser)
	assert.ErrorIs(t, wrongPassword, common.ErrorUnauthorized)
	assert.Equal(t, wrongPassword.Error(), noSuchUser.Error())

	var a, b *common.DomainError
	require.True(t, errors.As(wrongPassword, &a))
	require.True(t, errors.As(noSuchUser, &b))
	assert.Equal(t, *a, *b)
}

func TestLogin_IssuesTokenForUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reg, err := e.users.Register(ctx, "a@x.com", "right", "A")
	require.NoError(t, err)

	u, token, err := e.users.Login(ctx, "a@x.com", "right")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)

	claims, err := e.users.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)

	me, err := e.users.Me(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "A", me.Name)
}

func TestLogin_EmailWhitespaceMatchesRegistration(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reg, err := e.users.Register(ctx, " a@x.com ", "right", "A")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", reg.Email)

	for _, email := range []string{" a@x.com ", "a@x.com", "\ta@x.com\n"} {
		u, _, err := e.users.Login(ctx, email, "right")
		require.NoError(t, err, "email %q", email)
		assert.Equal(t, reg.ID, u.ID)
	}

	_, _, err = e.users.Login(ctx, "   ", "right")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	e := newEnv(t)

	_, err := e.users.Authenticate("garbage")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	expired, err := auth.GenerateToken("u", "u@x.com", []byte("test-secret"), -time.Minute)
	require.NoError(t, err)
	_, err = e.users.Authenticate(expired)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Equal(t, "Token expired", common.Message(err, ""))
}

func TestMe_UnknownUser(t *testing.T) {
	e := newEnv(t)
	_, err := e.users.Me(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
