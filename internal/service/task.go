package service

import (
	"context"
	"errors"
	"strings"

	"github.com/avilov/taskboard/internal/model"
	"github.com/avilov/taskboard/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
)

type TaskService struct {
	repo   repo.TaskRepository
	boards repo.BoardRepository
}

func NewTaskService(repo repo.TaskRepository, boards repo.BoardRepository) *TaskService {
	return &TaskService{repo: repo, boards: boards}
}

func (s *TaskService) Create(ctx context.Context, t model.Task, userID int64, idempKey string) (model.Task, error) {
	board, err := s.authorizeBoard(ctx, t.BoardID, userID)
	if err != nil {
		return t, err
	}

	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.Status == "" && len(board.Columns) > 0 {
		// Новые задачи по умолчанию попадают в первую колонку
		first := board.Columns[0]
		for _, c := range board.Columns[1:] {
			if c.Order < first.Order {
				first = c
			}
		}
		t.Status = first.ID
	}
	if err := s.validate(t, board); err != nil {
		return t, err
	}
	t.Owner = model.UserRef{ID: userID}

	if idempKey != "" { // Обеспечение идемпотентности - если ключ с ресурсом уже существует, мы не создаем его еще раз
		if existingID, err := s.repo.GetIdempotencyKey(ctx, idempKey); err == nil {
			return s.repo.Get(ctx, existingID)
		}
	}

	resource, err := s.repo.Create(ctx, t)
	if err != nil {
		return resource, err
	}

	if idempKey != "" {
		s.repo.SaveIdempotencyKey(ctx, idempKey, resource.ID)
	}

	return resource, nil
}

func (s *TaskService) Get(ctx context.Context, id, userID int64) (model.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return t, err
	}
	if _, err := s.authorizeBoard(ctx, t.BoardID, userID); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (s *TaskService) ListByBoard(ctx context.Context, boardID, userID int64) ([]model.Task, error) {
	if _, err := s.authorizeBoard(ctx, boardID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByBoard(ctx, boardID)
}

func (s *TaskService) Update(ctx context.Context, t model.Task, userID int64) (model.Task, error) {
	current, err := s.repo.Get(ctx, t.ID)
	if err != nil {
		return t, err
	}
	board, err := s.authorizeBoard(ctx, current.BoardID, userID)
	if err != nil {
		return t, err
	}
	t.Status = current.Status
	if t.Priority == "" {
		t.Priority = current.Priority
	}
	if err := s.validate(t, board); err != nil {
		return t, err
	}
	return s.repo.Update(ctx, t)
}

func (s *TaskService) UpdateChecklist(ctx context.Context, id int64, items []model.ChecklistItem, userID int64) (model.Task, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if _, err := s.authorizeBoard(ctx, current.BoardID, userID); err != nil {
		return model.Task{}, err
	}
	for _, item := range items {
		if strings.TrimSpace(item.Text) == "" {
			return model.Task{}, ErrValidation
		}
	}
	return s.repo.UpdateChecklist(ctx, id, items)
}

func (s *TaskService) Delete(ctx context.Context, id, userID int64) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.authorizeBoard(ctx, current.BoardID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Move переносит задачу в колонку status на позицию order.
func (s *TaskService) Move(ctx context.Context, id int64, status string, order int, userID int64) (model.Task, error) {
	if strings.TrimSpace(status) == "" || order < 0 {
		return model.Task{}, ErrValidation
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	board, err := s.authorizeBoard(ctx, current.BoardID, userID)
	if err != nil {
		return model.Task{}, err
	}
	if !columnExists(board, status) {
		return model.Task{}, ErrValidation
	}
	return s.repo.Move(ctx, id, status, order)
}

// ReorderBoard применяет bulk-обновление позиций для задач доски.
func (s *TaskService) ReorderBoard(ctx context.Context, boardID int64, updates []model.OrderUpdate, userID int64) error {
	if len(updates) == 0 {
		return ErrValidation
	}
	for _, u := range updates {
		if u.ID == 0 || u.Order < 0 {
			return ErrValidation
		}
	}
	if _, err := s.authorizeBoard(ctx, boardID, userID); err != nil {
		return err
	}
	return s.repo.UpdateOrders(ctx, updates)
}

func (s *TaskService) authorizeBoard(ctx context.Context, boardID, userID int64) (model.Board, error) {
	board, err := s.boards.Get(ctx, boardID)
	if err != nil {
		return board, err
	}
	if !board.HasAccess(userID) {
		return board, ErrForbidden
	}
	return board, nil
}

func columnExists(b model.Board, status string) bool {
	for _, c := range b.Columns {
		if c.ID == status {
			return true
		}
	}
	return false
}

func (s *TaskService) validate(t model.Task, board model.Board) error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrValidation
	}
	if !model.ValidPriority(t.Priority) {
		return ErrValidation
	}
	if t.Status != "" && !columnExists(board, t.Status) {
		return ErrValidation
	}
	return nil
}
