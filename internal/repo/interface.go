package repo

import (
	"context"

	"github.com/avilov/taskboard/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	ListByBoard(ctx context.Context, boardID int64) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	UpdateChecklist(ctx context.Context, id int64, items []model.ChecklistItem) (model.Task, error)
	Delete(ctx context.Context, id int64) error
	Move(ctx context.Context, id int64, status string, order int) (model.Task, error)
	UpdateOrders(ctx context.Context, updates []model.OrderUpdate) error
	SaveIdempotencyKey(ctx context.Context, key string, resourceID int64) error
	GetIdempotencyKey(ctx context.Context, key string) (int64, error)
}

type BoardRepository interface {
	Create(ctx context.Context, b model.Board) (model.Board, error)
	Get(ctx context.Context, id int64) (model.Board, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Board, error)
	Update(ctx context.Context, b model.Board) (model.Board, error)
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, boardID, userID int64) error
}

type TemplateRepository interface {
	List(ctx context.Context) ([]model.Template, error)
	Get(ctx context.Context, id int64) (model.Template, error)
}

type ColorRepository interface {
	List(ctx context.Context) ([]model.Color, error)
}

type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	Get(ctx context.Context, id int64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}
