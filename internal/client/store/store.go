// Package store keeps the CLI session (server URL, token and account) in a
// local SQLite database so that commands survive between invocations.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/client/migrations"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// ErrNoSession is returned by LoadSession when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

const (
	keyToken     = "session.token"
	keyUserID    = "session.user_id"
	keyEmail     = "session.email"
	keyName      = "session.name"
	keyServerURL = "session.server_url"
	keyLoginAt   = "session.login_at"
)

// Session is what login leaves behind for later commands.
type Session struct {
	Token     string
	UserID    string
	Email     string
	Name      string
	ServerURL string
	LoginAt   time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dsn and applies migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session db migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession replaces the stored session atomically.
func (s *Store) SaveSession(ctx context.Context, sess Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		kv := settings{db: tx}
		if err := kv.purge(ctx); err != nil {
			return err
		}
		return kv.put(ctx, map[string]string{
			keyToken:     sess.Token,
			keyUserID:    sess.UserID,
			keyEmail:     sess.Email,
			keyName:      sess.Name,
			keyServerURL: sess.ServerURL,
			keyLoginAt:   sess.LoginAt.UTC().Format(time.RFC3339),
		})
	})
}

// LoadSession returns ErrNoSession when no token is stored.
func (s *Store) LoadSession(ctx context.Context) (*Session, error) {
	values, err := settings{db: s.db}.all(ctx)
	if err != nil {
		return nil, err
	}
	if values[keyToken] == "" {
		return nil, ErrNoSession
	}

	sess := &Session{
		Token:     values[keyToken],
		UserID:    values[keyUserID],
		Email:     values[keyEmail],
		Name:      values[keyName],
		ServerURL: values[keyServerURL],
	}
	if at, err := time.Parse(time.RFC3339, values[keyLoginAt]); err == nil {
		sess.LoginAt = at
	}
	return sess, nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	return settings{db: s.db}.purge(ctx)
}
