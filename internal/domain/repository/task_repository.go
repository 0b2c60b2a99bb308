package repository

import (
	"context"

	"github.com/virenradadiya3/todo/internal/domain/entity"
)

// TaskRepository defines the interface for task-related database operations.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	// ListByOwner returns the owner's tasks newest-created first.
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error)
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	// UpdateFields applies a partial update in a single statement and
	// returns the updated row.
	UpdateFields(ctx context.Context, id string, changes entity.TaskChanges) (*entity.Task, error)
	// Delete removes the task and returns the deleted row.
	Delete(ctx context.Context, id string) (*entity.Task, error)
}
