package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/models"
)

// Repository describes account persistence.
type Repository interface {
	// Create inserts user and assigns user.ID. A taken username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) error

	// GetByUsername and GetByID return common.ErrorNotFound for unknown users.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)

	Exists(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int, error)

	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}
