package respondents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

const respondentColumns = `id, email, name, metadata, surveys_completed, last_response_at, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRespondent(row scanner) (*models.Respondent, error) {
	var (
		r        models.Respondent
		metadata []byte
		last     sql.NullTime
	)
	err := row.Scan(&r.ID, &r.Email, &r.Name, &metadata, &r.SurveysCompleted, &last, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &r.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	if len(r.Metadata) == 0 {
		r.Metadata = nil
	}
	if last.Valid {
		t := last.Time
		r.LastResponseAt = &t
	}
	return &r, nil
}

// Upsert relies on jsonb concatenation, which is a shallow merge where keys
// from the right operand win.
func (r *PostgresRepository) Upsert(ctx context.Context, in models.RespondentInput, now time.Time) (*models.Respondent, error) {
	metadata := "{}"
	if len(in.Metadata) > 0 {
		b, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
		metadata = string(b)
	}

	query :=
		`INSERT INTO respondents (email, name, metadata, created_at)
		 VALUES ($1, $2, $3::jsonb, $4)
		 ON CONFLICT (email) DO UPDATE SET
		   name = EXCLUDED.name,
		   metadata = respondents.metadata || EXCLUDED.metadata
		 RETURNING ` + respondentColumns

	res, err := scanRespondent(r.db.QueryRowContext(ctx, query, in.Email, in.Name, metadata, now))
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	return res, nil
}

// IncrementCompletion records responseID in respondent_completions and bumps
// the counter only when that insert happened. A replay inserts nothing and
// the current row is returned instead.
func (r *PostgresRepository) IncrementCompletion(ctx context.Context, respondentID, responseID string, at time.Time) (*models.Respondent, error) {
	query :=
		`WITH counted AS (
		   INSERT INTO respondent_completions (response_id, respondent_id, counted_at)
		   VALUES ($2, $1, $3)
		   ON CONFLICT (response_id) DO NOTHING
		   RETURNING respondent_id
		 )
		 UPDATE respondents SET
		   surveys_completed = surveys_completed + 1,
		   last_response_at = $3
		 WHERE id = (SELECT respondent_id FROM counted)
		 RETURNING ` + respondentColumns

	res, err := scanRespondent(r.db.QueryRowContext(ctx, query, respondentID, responseID, at))
	if errors.Is(err, sql.ErrNoRows) {
		return r.GetByID(ctx, respondentID)
	}
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	return res, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Respondent, error) {
	query := `SELECT ` + respondentColumns + ` FROM respondents WHERE id = $1`

	res, err := scanRespondent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	return res, nil
}

func filterClause(search string) (string, []any) {
	if search == "" {
		return "TRUE", nil
	}
	return "(name ILIKE $1 OR email ILIKE $1)", []any{dbx.ContainsPattern(search)}
}

func (r *PostgresRepository) List(ctx context.Context, search string, page models.PageRequest) ([]models.Respondent, error) {
	where, args := filterClause(search)
	args = append(args, page.Limit, page.Offset())

	query := fmt.Sprintf(`SELECT %s FROM respondents WHERE %s
		 ORDER BY created_at DESC, id
		 LIMIT $%d OFFSET $%d`, respondentColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	defer rows.Close()

	result := []models.Respondent{}
	for rows.Next() {
		res, err := scanRespondent(rows)
		if err != nil {
			return nil, dbx.TranslateError(err)
		}
		result = append(result, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.TranslateError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, search string) (int, error) {
	where, args := filterClause(search)

	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM respondents WHERE `+where, args...).Scan(&n)
	if err != nil {
		return 0, dbx.TranslateError(err)
	}
	return n, nil
}
