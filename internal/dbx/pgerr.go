package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes translated by TranslateError.
const (
	pgUniqueViolation           = "23505"
	pgForeignKeyViolation       = "23503"
	pgInvalidTextRepresentation = "22P02"
)

// TranslateError maps driver errors onto the common sentinels. Missing rows,
// dangling references and malformed ids become common.ErrorNotFound; unique
// violations become common.ErrorConflict. Anything else is wrapped as a db
// error.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return common.ErrorConflict
		case pgForeignKeyViolation, pgInvalidTextRepresentation:
			return common.ErrorNotFound
		}
	}

	return fmt.Errorf("db error: %w", err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns an ILIKE pattern matching s as a literal substring.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
