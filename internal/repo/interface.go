package repo

import (
	"context"

	"github.com/BuzzLyutic/taskflow-api/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) error
	Get(ctx context.Context, taskID string) (model.Task, error)
	ApplyPartialUpdate(ctx context.Context, taskID string, upd model.TaskUpdate) (model.Task, error)
	Delete(ctx context.Context, taskID string) error
	ListByOwner(ctx context.Context, userID string, filter model.TaskFilter) ([]model.Task, error)
	ReferencedAttachmentKeys(ctx context.Context) ([]string, error)
}
