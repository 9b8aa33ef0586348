package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestSession_RoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")
	loginAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveSession(ctx, Session{
		Token:     "tok",
		UserID:    "u1",
		Email:     "a@x.com",
		Name:      "Ann",
		ServerURL: "http://localhost:3001",
		LoginAt:   loginAt,
	}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	sess, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Session{
		Token:     "tok",
		UserID:    "u1",
		Email:     "a@x.com",
		Name:      "Ann",
		ServerURL: "http://localhost:3001",
		LoginAt:   loginAt,
	}, sess)
}

func TestSession_SaveReplacesPrevious(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, Session{Token: "old", Email: "old@x.com", Name: "Old"}))
	require.NoError(t, s.SaveSession(ctx, Session{Token: "new", Email: "new@x.com"}))

	sess, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", sess.Token)
	assert.Equal(t, "new@x.com", sess.Email)
	assert.Empty(t, sess.Name)
}

func TestSession_ClearLogsOut(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, err := s.LoadSession(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.SaveSession(ctx, Session{Token: "tok"}))
	require.NoError(t, s.ClearSession(ctx))

	_, err = s.LoadSession(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}
