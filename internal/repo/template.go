package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avilov/taskboard/internal/model"
)

type TemplateRepo struct {
	pool *pgxpool.Pool
}

func NewTemplateRepo(pool *pgxpool.Pool) *TemplateRepo {
	return &TemplateRepo{pool: pool}
}

func (r *TemplateRepo) List(ctx context.Context) ([]model.Template, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title, columns FROM templates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]model.Template, 0)
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(&t.ID, &t.Title, &t.Columns); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepo) Get(ctx context.Context, id int64) (model.Template, error) {
	var t model.Template
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, columns FROM templates WHERE id = $1
	`, id).Scan(&t.ID, &t.Title, &t.Columns)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

type ColorRepo struct {
	pool *pgxpool.Pool
}

func NewColorRepo(pool *pgxpool.Pool) *ColorRepo {
	return &ColorRepo{pool: pool}
}

func (r *ColorRepo) List(ctx context.Context) ([]model.Color, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, hex FROM colors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colors := make([]model.Color, 0)
	for rows.Next() {
		var c model.Color
		if err := rows.Scan(&c.ID, &c.Name, &c.Hex); err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, rows.Err()
}
