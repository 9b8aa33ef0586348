package responses

import (
	"context"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

// Repository stores submitted responses. Responses are append-only.
type Repository interface {
	Create(ctx context.Context, response *models.Response) (*models.Response, error)
	ListBySurvey(ctx context.Context, surveyID string, page models.PageRequest) ([]models.Response, error)
	CountBySurvey(ctx context.Context, surveyID string) (int, error)
	// AllBySurvey returns every response of the survey, oldest first.
	AllBySurvey(ctx context.Context, surveyID string) ([]models.Response, error)
}
