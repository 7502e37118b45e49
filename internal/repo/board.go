package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avilov/taskboard/internal/model"
)

type BoardRepo struct {
	pool *pgxpool.Pool
}

func NewBoardRepo(pool *pgxpool.Pool) *BoardRepo {
	return &BoardRepo{pool: pool}
}

func (r *BoardRepo) Create(ctx context.Context, b model.Board) (model.Board, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return b, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO boards (title, creator_id, template_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, b.Title, b.CreatorID, b.TemplateID).Scan(&id)
	if err != nil {
		return b, err
	}

	for _, m := range b.Members {
		if _, err := tx.Exec(ctx, `
			INSERT INTO board_members (board_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, id, m); err != nil {
			return b, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return b, err
	}
	return r.Get(ctx, id)
}

// Get возвращает доску вместе с колонками ее шаблона
func (r *BoardRepo) Get(ctx context.Context, id int64) (model.Board, error) {
	var b model.Board
	err := r.pool.QueryRow(ctx, `
		SELECT b.id, b.title, b.creator_id, b.template_id, t.columns,
		       COALESCE(ARRAY(SELECT user_id FROM board_members WHERE board_id = b.id ORDER BY user_id), '{}'),
		       b.created_at, b.updated_at
		FROM boards b
		JOIN templates t ON t.id = b.template_id
		WHERE b.id = $1
	`, id).Scan(
		&b.ID, &b.Title, &b.CreatorID, &b.TemplateID, &b.Columns,
		&b.Members, &b.CreatedAt, &b.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return b, ErrorNotFound
	}
	return b, err
}

func (r *BoardRepo) ListByUser(ctx context.Context, userID int64) ([]model.Board, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.title, b.creator_id, b.template_id, t.columns,
		       COALESCE(ARRAY(SELECT user_id FROM board_members WHERE board_id = b.id ORDER BY user_id), '{}'),
		       b.created_at, b.updated_at
		FROM boards b
		JOIN templates t ON t.id = b.template_id
		WHERE b.creator_id = $1
		   OR EXISTS (SELECT 1 FROM board_members m WHERE m.board_id = b.id AND m.user_id = $1)
		ORDER BY b.created_at DESC, b.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := make([]model.Board, 0)
	for rows.Next() {
		var b model.Board
		if err := rows.Scan(
			&b.ID, &b.Title, &b.CreatorID, &b.TemplateID, &b.Columns,
			&b.Members, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (r *BoardRepo) Update(ctx context.Context, b model.Board) (model.Board, error) {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE boards SET title = $2, updated_at = now() WHERE id = $1
	`, b.ID, b.Title)
	if err != nil {
		return b, err
	}
	if cmd.RowsAffected() == 0 {
		return b, ErrorNotFound
	}
	return r.Get(ctx, b.ID)
}

func (r *BoardRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM boards WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *BoardRepo) AddMember(ctx context.Context, boardID, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO board_members (board_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, boardID, userID)
	return err
}
