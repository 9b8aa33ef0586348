package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ RepositoryManager = (*PostgresRepositoryManager)(nil)
	_ RepositoryManager = (*InMemoryRepositoryManager)(nil)
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	return db, mock
}

func TestFactories_ReturnRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	for _, m := range []RepositoryManager{NewPostgresRepositoryManager(db), NewInMemoryRepositoryManager()} {
		assert.NotNil(t, m.Users(m.Conn()))
		assert.NotNil(t, m.Surveys(m.Conn()))
		assert.NotNil(t, m.Respondents(m.Conn()))
		assert.NotNil(t, m.Responses(m.Conn()))
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	require.NoError(t, NewPostgresRepositoryManager(db).RunMigrations(context.Background()))
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	assert.EqualError(t, NewPostgresRepositoryManager(db).RunMigrations(context.Background()), "boom")
}

func TestPostgresRunInTx_CommitsAndRollsBack(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager(db)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, m.RunInTx(context.Background(), func(ctx context.Context, tx dbx.DBTX) error {
		return nil
	}))

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := m.RunInTx(context.Background(), func(ctx context.Context, tx dbx.DBTX) error {
		return errors.New("fail")
	})
	assert.EqualError(t, err, "fail")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenPostgres_PingFailureClosesPool(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()

	orig := sqlOpen
	sqlOpen = func(driverName, dsn string) (*sql.DB, error) {
		if driverName != "pgx" {
			return nil, errors.New("unexpected driver")
		}
		return db, nil
	}
	defer func() { sqlOpen = orig }()

	_, err := OpenPostgres(context.Background(), "postgres://x")
	assert.EqualError(t, err, "refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenPostgres_Success(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()
	mock.ExpectPing()

	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }
	defer func() { sqlOpen = orig }()

	m, err := OpenPostgres(context.Background(), "postgres://x")
	require.NoError(t, err)
	assert.Equal(t, dbx.DBTX(db), m.Conn())
}

func TestInMemoryRunInTx_PassesThroughError(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	called := false
	err := m.RunInTx(context.Background(), func(ctx context.Context, tx dbx.DBTX) error {
		called = true
		return errors.New("x")
	})
	assert.True(t, called)
	assert.EqualError(t, err, "x")
	assert.NoError(t, m.RunMigrations(context.Background()))
	assert.NoError(t, m.Close())
}
