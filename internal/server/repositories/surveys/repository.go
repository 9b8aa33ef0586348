package surveys

import (
	"context"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

// Repository persists surveys. Every owner-scoped method matches on both id
// and owner id and reports a mismatch as common.ErrorNotFound, so another
// owner's survey is indistinguishable from a missing one.
type Repository interface {
	Create(ctx context.Context, survey *models.Survey) (*models.Survey, error)
	Get(ctx context.Context, id string) (*models.Survey, error)
	GetOwned(ctx context.Context, id, ownerID string) (*models.Survey, error)
	List(ctx context.Context, filter models.SurveyFilter, page models.PageRequest) ([]models.Survey, error)
	Count(ctx context.Context, filter models.SurveyFilter) (int, error)
	Update(ctx context.Context, id, ownerID string, patch models.SurveyPatch, now time.Time) (*models.Survey, error)
	Publish(ctx context.Context, id, ownerID string, now time.Time) (*models.Survey, error)
	Delete(ctx context.Context, id, ownerID string) error
}
