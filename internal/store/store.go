package store

import (
	"context"
	"time"

	"github.com/nhle/task-service/internal/model"
)

// TaskFilter controls filtering for task list and count queries.
type TaskFilter struct {
	Status *model.Status
}

// TaskPatch carries the fields of a partial update. An unset field
// leaves the stored value untouched; DueDate set with a nil value
// clears the column.
type TaskPatch struct {
	Title       model.Optional[string]
	Description model.Optional[string]
	DueDate     model.Optional[*time.Time]
	Status      model.Optional[model.Status]
}

// Empty reports whether the patch touches no fields at all.
func (p TaskPatch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.DueDate.Set && !p.Status.Set
}

// Store defines the persistence interface for tasks. It is the sole
// owner of identifier assignment and timestamp maintenance.
type Store interface {
	CreateTask(ctx context.Context, in model.NewTask) (*model.Task, error)
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	UpdateTask(ctx context.Context, id int64, patch TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	CountTasks(ctx context.Context, filter TaskFilter) (int, error)

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error
}
