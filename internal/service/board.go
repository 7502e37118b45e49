package service

import (
	"context"
	"strings"

	"github.com/avilov/taskboard/internal/model"
	"github.com/avilov/taskboard/internal/repo"
)

type BoardService struct {
	repo      repo.BoardRepository
	templates repo.TemplateRepository
}

func NewBoardService(repo repo.BoardRepository, templates repo.TemplateRepository) *BoardService {
	return &BoardService{repo: repo, templates: templates}
}

func (s *BoardService) Create(ctx context.Context, b model.Board, userID int64) (model.Board, error) {
	if strings.TrimSpace(b.Title) == "" {
		return b, ErrValidation
	}
	if _, err := s.templates.Get(ctx, b.TemplateID); err != nil {
		return b, err
	}
	b.CreatorID = userID
	return s.repo.Create(ctx, b)
}

func (s *BoardService) Get(ctx context.Context, id, userID int64) (model.Board, error) {
	board, err := s.repo.Get(ctx, id)
	if err != nil {
		return board, err
	}
	if !board.HasAccess(userID) {
		return model.Board{}, ErrForbidden
	}
	return board, nil
}

func (s *BoardService) ListByUser(ctx context.Context, userID int64) ([]model.Board, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *BoardService) Update(ctx context.Context, b model.Board, userID int64) (model.Board, error) {
	if strings.TrimSpace(b.Title) == "" {
		return b, ErrValidation
	}
	current, err := s.repo.Get(ctx, b.ID)
	if err != nil {
		return b, err
	}
	if current.CreatorID != userID {
		return b, ErrForbidden
	}
	return s.repo.Update(ctx, b)
}

// Delete доступен только создателю доски
func (s *BoardService) Delete(ctx context.Context, id, userID int64) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.CreatorID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *BoardService) AddMember(ctx context.Context, boardID, memberID, userID int64) error {
	current, err := s.repo.Get(ctx, boardID)
	if err != nil {
		return err
	}
	if current.CreatorID != userID {
		return ErrForbidden
	}
	return s.repo.AddMember(ctx, boardID, memberID)
}
