package responses

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

const responseColumns = `id, survey_id, respondent_email, respondent_name, answers, completed_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResponse(row scanner) (*models.Response, error) {
	var (
		r       models.Response
		answers []byte
	)
	err := row.Scan(&r.ID, &r.SurveyID, &r.Respondent.Email, &r.Respondent.Name, &answers, &r.CompletedAt)
	if err != nil {
		return nil, err
	}
	r.Answers = models.Answers{}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &r.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
	}
	return &r, nil
}

func (r *PostgresRepository) Create(ctx context.Context, response *models.Response) (*models.Response, error) {
	answers := response.Answers
	if answers == nil {
		answers = models.Answers{}
	}
	b, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}

	query :=
		`INSERT INTO responses (survey_id, respondent_email, respondent_name, answers, completed_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5)
		 RETURNING id`

	err = r.db.QueryRowContext(ctx, query,
		response.SurveyID, response.Respondent.Email, response.Respondent.Name, string(b), response.CompletedAt).
		Scan(&response.ID)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	response.Answers = answers
	return response, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Response, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	defer rows.Close()

	result := []models.Response{}
	for rows.Next() {
		res, err := scanResponse(rows)
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

func (r *PostgresRepository) ListBySurvey(ctx context.Context, surveyID string, page models.PageRequest) ([]models.Response, error) {
	query :=
		`SELECT ` + responseColumns + ` FROM responses
		 WHERE survey_id = $1
		 ORDER BY completed_at DESC, id
		 LIMIT $2 OFFSET $3`

	return r.query(ctx, query, surveyID, page.Limit, page.Offset())
}

func (r *PostgresRepository) CountBySurvey(ctx context.Context, surveyID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses WHERE survey_id = $1`, surveyID).Scan(&n)
	if err != nil {
		return 0, dbx.TranslateError(err)
	}
	return n, nil
}

func (r *PostgresRepository) AllBySurvey(ctx context.Context, surveyID string) ([]models.Response, error) {
	query :=
		`SELECT ` + responseColumns + ` FROM responses
		 WHERE survey_id = $1
		 ORDER BY completed_at, id`

	return r.query(ctx, query, surveyID)
}
