// internal/repo/task_test.go
package repo

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avilov/taskboard/internal/model"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatal(err)
	}

	// Очистка
	pool.Exec(context.Background(), "TRUNCATE tasks, boards, board_members, idempotency_keys, users RESTART IDENTITY CASCADE")

	return pool
}

func seedBoard(t *testing.T, pool *pgxpool.Pool) (boardID, userID int64) {
	t.Helper()
	ctx := context.Background()

	err := pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash) VALUES ('t@t.t', 'T', 'x') RETURNING id
	`).Scan(&userID)
	if err != nil {
		t.Fatal(err)
	}

	err = pool.QueryRow(ctx, `
		INSERT INTO boards (title, creator_id, template_id)
		VALUES ('Test', $1, (SELECT id FROM templates ORDER BY id LIMIT 1))
		RETURNING id
	`, userID).Scan(&boardID)
	if err != nil {
		t.Fatal(err)
	}
	return boardID, userID
}

func TestTaskRepo_CreateAppendsToColumn(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	boardID, userID := seedBoard(t, pool)
	repo := NewTaskRepo(pool)
	ctx := context.Background()

	first, err := repo.Create(ctx, model.Task{
		BoardID: boardID, Title: "First", Status: "backlog",
		Priority: model.PriorityMedium, Owner: model.UserRef{ID: userID},
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.Order != 0 {
		t.Errorf("expected order=0, got %d", first.Order)
	}
	if !first.Owner.Resolved() {
		t.Error("expected owner to be populated")
	}

	second, err := repo.Create(ctx, model.Task{
		BoardID: boardID, Title: "Second", Status: "backlog",
		Priority: model.PriorityLow, Owner: model.UserRef{ID: userID},
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.Order != 1 {
		t.Errorf("expected order=1, got %d", second.Order)
	}
}

func TestTaskRepo_Move(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	boardID, userID := seedBoard(t, pool)
	repo := NewTaskRepo(pool)
	ctx := context.Background()

	task, err := repo.Create(ctx, model.Task{
		BoardID: boardID, Title: "T", Status: "backlog",
		Priority: model.PriorityHigh, Owner: model.UserRef{ID: userID},
	})
	if err != nil {
		t.Fatal(err)
	}

	moved, err := repo.Move(ctx, task.ID, "done", 5)
	if err != nil {
		t.Fatal(err)
	}
	if moved.Status != "done" || moved.Order != 5 {
		t.Errorf("expected done/5, got %s/%d", moved.Status, moved.Order)
	}

	if _, err := repo.Move(ctx, 99999, "done", 0); err != ErrorNotFound {
		t.Errorf("expected ErrorNotFound, got %v", err)
	}
}

func TestTaskRepo_UpdateOrdersPartialSuccess(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	boardID, userID := seedBoard(t, pool)
	repo := NewTaskRepo(pool)
	ctx := context.Background()

	a, _ := repo.Create(ctx, model.Task{BoardID: boardID, Title: "A", Status: "backlog", Priority: "low", Owner: model.UserRef{ID: userID}})
	b, _ := repo.Create(ctx, model.Task{BoardID: boardID, Title: "B", Status: "backlog", Priority: "low", Owner: model.UserRef{ID: userID}})

	// Несуществующий id не срывает остальные обновления
	err := repo.UpdateOrders(ctx, []model.OrderUpdate{
		{ID: a.ID, Order: 1},
		{ID: 99999, Order: 7},
		{ID: b.ID, Order: 0},
	})
	if err != nil {
		t.Fatal(err)
	}

	tasks, err := repo.ListByBoard(ctx, boardID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != b.ID || tasks[0].Order != 0 {
		t.Errorf("expected %d first with order 0, got %d/%d", b.ID, tasks[0].ID, tasks[0].Order)
	}
	if tasks[1].ID != a.ID || tasks[1].Order != 1 {
		t.Errorf("expected %d second with order 1, got %d/%d", a.ID, tasks[1].ID, tasks[1].Order)
	}
}

func TestTaskRepo_UpdateChecklist(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	boardID, userID := seedBoard(t, pool)
	repo := NewTaskRepo(pool)
	ctx := context.Background()

	task, err := repo.Create(ctx, model.Task{BoardID: boardID, Title: "T", Status: "backlog", Priority: "medium", Owner: model.UserRef{ID: userID}})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := repo.UpdateChecklist(ctx, task.ID, []model.ChecklistItem{
		{Text: "one", Completed: true},
		{Text: "two", Completed: false},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Checklist) != 2 || updated.Checklist[0].Text != "one" {
		t.Errorf("unexpected checklist: %+v", updated.Checklist)
	}
	if updated.ChecklistDone() {
		t.Error("checklist should not be done")
	}
}
