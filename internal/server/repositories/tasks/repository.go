package tasks

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

// Repository persists tasks. Every read and write except Create and
// DeleteByOwner is scoped by owner: a task of another user behaves exactly
// like a missing one.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	List(ctx context.Context, ownerID string, opts models.TaskListOptions) ([]*models.Task, error)
	GetByID(ctx context.Context, ownerID string, id string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, ownerID string, id string) (*models.Task, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
