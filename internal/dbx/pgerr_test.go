package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, common.ErrorNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, common.ErrorConflict},
		{"wrapped unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), common.ErrorConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, common.ErrorNotFound},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, common.ErrorNotFound},
		{"other", boom, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	assert.EqualError(t, TranslateError(boom), "db error: boom")
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%cust%", ContainsPattern("cust"))
	assert.Equal(t, `%50\%\_off\\%`, ContainsPattern(`50%_off\`))
}
