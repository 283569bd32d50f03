package users

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

// Repository persists user identities and their avatar blobs.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIDAndToken returns the user only if token is still in the
	// user's token list.
	GetByIDAndToken(ctx context.Context, id string, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error

	// SetAvatar replaces the stored avatar; a nil blob clears it.
	SetAvatar(ctx context.Context, id string, blob []byte) error
	GetAvatar(ctx context.Context, id string) ([]byte, error)
}
