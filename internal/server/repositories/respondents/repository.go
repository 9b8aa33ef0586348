package respondents

import (
	"context"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

// Repository persists respondents keyed by email.
type Repository interface {
	// Upsert creates the respondent for in.Email with a zero counter, or
	// overwrites its name and shallow-merges metadata. The counter is left
	// untouched.
	Upsert(ctx context.Context, in models.RespondentInput, now time.Time) (*models.Respondent, error)

	// IncrementCompletion counts responseID once for the respondent and
	// stamps the last response time. Repeating it for the same responseID
	// changes nothing.
	IncrementCompletion(ctx context.Context, respondentID, responseID string, at time.Time) (*models.Respondent, error)

	GetByID(ctx context.Context, id string) (*models.Respondent, error)
	List(ctx context.Context, search string, page models.PageRequest) ([]models.Respondent, error)
	Count(ctx context.Context, search string) (int, error)
}
