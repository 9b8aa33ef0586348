package users

import (
	"context"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

// Repository persists user accounts. Create returns common.ErrorConflict for
// a duplicate email; lookups return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
