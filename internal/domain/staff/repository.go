package staff

import (
	"context"

	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type Repository interface {
	// GetUser returns httperr.NotFoundError on a miss.
	GetUser(ctx context.Context, id uint) (*models.User, error)

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateUser returns httperr.ConflictError for a taken email.
	CreateUser(ctx context.Context, user *models.User) error

	CountUsers(ctx context.Context) (int64, error)
}
