package surveys

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

const surveyColumns = `id, owner_id, title, description, status, questions, created_at, updated_at, published_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSurvey(row scanner) (*models.Survey, error) {
	var (
		s         models.Survey
		status    string
		questions []byte
		published sql.NullTime
	)
	err := row.Scan(&s.ID, &s.OwnerID, &s.Title, &s.Description, &status,
		&questions, &s.CreatedAt, &s.UpdatedAt, &published)
	if err != nil {
		return nil, err
	}

	s.Status = models.SurveyStatus(status)
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &s.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
	}
	if s.Questions == nil {
		s.Questions = []models.Question{}
	}
	if published.Valid {
		t := published.Time
		s.PublishedAt = &t
	}
	return &s, nil
}

func encodeQuestions(q []models.Question) (string, error) {
	if q == nil {
		q = []models.Question{}
	}
	b, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("encode questions: %w", err)
	}
	return string(b), nil
}

func (r *PostgresRepository) Create(ctx context.Context, survey *models.Survey) (*models.Survey, error) {
	questions, err := encodeQuestions(survey.Questions)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO surveys (owner_id, title, description, status, questions, created_at, updated_at, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
		 RETURNING ` + surveyColumns

	var published sql.NullTime
	if survey.PublishedAt != nil {
		published = sql.NullTime{Time: *survey.PublishedAt, Valid: true}
	}

	created, err := scanSurvey(r.db.QueryRowContext(ctx, query,
		survey.OwnerID, survey.Title, survey.Description, string(survey.Status), questions, survey.CreatedAt, published))
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	return created, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Survey, error) {
	query := `SELECT ` + surveyColumns + ` FROM surveys WHERE id = $1`

	s, err := scanSurvey(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	return s, nil
}

func (r *PostgresRepository) GetOwned(ctx context.Context, id, ownerID string) (*models.Survey, error) {
	query := `SELECT ` + surveyColumns + ` FROM surveys WHERE id = $1 AND owner_id = $2`

	s, err := scanSurvey(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	return s, nil
}

// filterClause renders the WHERE predicate shared by List and Count so both
// always agree on the matching set.
func filterClause(f models.SurveyFilter) (string, []any) {
	conds := []string{"owner_id = $1"}
	args := []any{f.OwnerID}

	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, dbx.ContainsPattern(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	return strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) List(ctx context.Context, filter models.SurveyFilter, page models.PageRequest) ([]models.Survey, error) {
	where, args := filterClause(filter)
	args = append(args, page.Limit, page.Offset())

	query := fmt.Sprintf(`SELECT %s FROM surveys WHERE %s
		 ORDER BY created_at DESC, id
		 LIMIT $%d OFFSET $%d`, surveyColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	defer rows.Close()

	result := []models.Survey{}
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, dbx.TranslateError(err)
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.TranslateError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, filter models.SurveyFilter) (int, error) {
	where, args := filterClause(filter)
	query := `SELECT COUNT(*) FROM surveys WHERE ` + where

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, dbx.TranslateError(err)
	}
	return n, nil
}

// Update merges the set fields of patch in a single statement; NULL
// parameters leave the stored column as is.
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID string, patch models.SurveyPatch, now time.Time) (*models.Survey, error) {
	var title, description, status, questions sql.NullString
	if patch.Title != nil {
		title = sql.NullString{String: *patch.Title, Valid: true}
	}
	if patch.Description != nil {
		description = sql.NullString{String: *patch.Description, Valid: true}
	}
	if patch.Status != nil {
		status = sql.NullString{String: string(*patch.Status), Valid: true}
	}
	if patch.Questions != nil {
		q, err := encodeQuestions(*patch.Questions)
		if err != nil {
			return nil, err
		}
		questions = sql.NullString{String: q, Valid: true}
	}

	query :=
		`UPDATE surveys SET
		   title = COALESCE($3, title),
		   description = COALESCE($4, description),
		   status = COALESCE($5, status),
		   questions = COALESCE($6::jsonb, questions),
		   updated_at = $7
		 WHERE id = $1 AND owner_id = $2
		 RETURNING ` + surveyColumns

	s, err := scanSurvey(r.db.QueryRowContext(ctx, query,
		id, ownerID, title, description, status, questions, now))
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	return s, nil
}

func (r *PostgresRepository) Publish(ctx context.Context, id, ownerID string, now time.Time) (*models.Survey, error) {
	query :=
		`UPDATE surveys SET status = $3, published_at = $4, updated_at = $4
		 WHERE id = $1 AND owner_id = $2
		 RETURNING ` + surveyColumns

	s, err := scanSurvey(r.db.QueryRowContext(ctx, query,
		id, ownerID, string(models.SurveyStatusActive), now))
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM surveys WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return dbx.TranslateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.TranslateError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
