package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avilov/taskboard/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

const taskColumns = `
	t.id, t.board_id, t.title, t.description, t.status, t.priority,
	t."order", t.version, t.checklist, t.created_at, t.updated_at,
	t.owner_id, u.email, u.name, u.created_at,
	t.color_id, c.name, c.hex
`

const taskFrom = `
	FROM tasks t
	JOIN users u ON u.id = t.owner_id
	LEFT JOIN colors c ON c.id = t.color_id
`

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask собирает задачу вместе с владельцем и цветом
func scanTask(row rowScanner) (model.Task, error) {
	var (
		t        model.Task
		owner    model.User
		colorID  *int64
		colorHex *string
		colorNm  *string
	)
	err := row.Scan(
		&t.ID, &t.BoardID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.Order, &t.Version, &t.Checklist, &t.CreatedAt, &t.UpdatedAt,
		&owner.ID, &owner.Email, &owner.Name, &owner.CreatedAt,
		&colorID, &colorNm, &colorHex,
	)
	if err != nil {
		return t, err
	}
	t.Owner = model.UserRef{ID: owner.ID, User: &owner}
	if colorID != nil {
		t.Color = model.ColorRef{ID: *colorID, Color: &model.Color{ID: *colorID, Name: *colorNm, Hex: *colorHex}}
	}
	return t, nil
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	var colorID *int64
	if t.Color.ID != 0 {
		colorID = &t.Color.ID
	}
	if t.Checklist == nil {
		t.Checklist = []model.ChecklistItem{}
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (board_id, title, description, status, priority, color_id, owner_id, checklist, "order")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			(SELECT COALESCE(MAX("order") + 1, 0) FROM tasks WHERE board_id = $1 AND status = $4))
		RETURNING id
	`, t.BoardID, t.Title, t.Description, t.Status, t.Priority, colorID, t.Owner.ID, t.Checklist).Scan(&id)
	if err != nil {
		return t, r.mapError(err)
	}
	return r.Get(ctx, id)
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+taskFrom+` WHERE t.id = $1`, id)

	t, err := scanTask(row)
	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) ListByBoard(ctx context.Context, boardID int64) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+taskFrom+`
		WHERE t.board_id = $1
		ORDER BY t.status, t."order", t.updated_at, t.id
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	var colorID *int64
	if t.Color.ID != 0 {
		colorID = &t.Color.ID
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, color_id = $5,
		    version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $6
		RETURNING id
	`, t.ID, t.Title, t.Description, t.Priority, colorID, t.Version).Scan(&id)

	if err == pgx.ErrNoRows {
		return t, ErrorConflict
	}
	if err != nil {
		return t, err
	}
	return r.Get(ctx, id)
}

func (r *TaskRepo) UpdateChecklist(ctx context.Context, id int64, items []model.ChecklistItem) (model.Task, error) {
	if items == nil {
		items = []model.ChecklistItem{}
	}
	cmd, err := r.pool.Exec(ctx, `
		UPDATE tasks SET checklist = $2, updated_at = now() WHERE id = $1
	`, id, items)
	if err != nil {
		return model.Task{}, err
	}
	if cmd.RowsAffected() == 0 {
		return model.Task{}, ErrorNotFound
	}
	return r.Get(ctx, id)
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

// Move обновляет колонку и позицию одной задачи. Last write wins,
// никакого version-токена здесь нет.
func (r *TaskRepo) Move(ctx context.Context, id int64, status string, order int) (model.Task, error) {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE tasks SET status = $2, "order" = $3, updated_at = now() WHERE id = $1
	`, id, status, order)
	if err != nil {
		return model.Task{}, err
	}
	if cmd.RowsAffected() == 0 {
		return model.Task{}, ErrorNotFound
	}
	return r.Get(ctx, id)
}

// UpdateOrders выполняет bulk-write позиций через pgx.Batch без транзакции.
// Несуществующие id молча пропускаются; при ошибке в середине пачки
// часть строк уже записана — клиент в этом случае перечитывает доску.
func (r *TaskRepo) UpdateOrders(ctx context.Context, updates []model.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(`UPDATE tasks SET "order" = $2, updated_at = now() WHERE id = $1`, u.ID, u.Order)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range updates {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return br.Close()
}

func (r *TaskRepo) SaveIdempotencyKey(ctx context.Context, key string, resourceID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (key, resource_id) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`, key, resourceID)
	return err
}

func (r *TaskRepo) GetIdempotencyKey(ctx context.Context, key string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		SELECT resource_id from idempotency_keys WHERE key = $1
	`, key).Scan(&id)

	if err == pgx.ErrNoRows {
		return 0, ErrorNotFound
	}
	return id, err
}

func (r *TaskRepo) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return ErrorConflict
		}
		if pgErr.Code == "23503" {
			return ErrorNotFound
		}
	}
	return err
}
