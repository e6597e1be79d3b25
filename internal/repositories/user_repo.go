package repositories

import (
	"context"

	"github.com/rmaloney/backoffice/internal/models"
)

// UserRepository defines the contract for user persistence. Both the seeded
// in-memory store and the Postgres store satisfy it; the service layer treats
// either as an opaque backend.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, params models.ListParams) ([]*models.User, int, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
