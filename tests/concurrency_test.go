package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avilov/taskboard/internal/model"
	"github.com/avilov/taskboard/internal/repo"
	"github.com/avilov/taskboard/internal/service"
	"github.com/avilov/taskboard/internal/worker"
)

func TestConcurrent_IdempotentCreate(t *testing.T) {
	pool, cleanup := SetupTestDB(t)
	defer cleanup()

	TruncateTables(t, pool)
	userID := SeedUser(t, pool, "conc@test.dev")
	boardID := SeedBoard(t, pool, userID)

	taskRepo := repo.NewTaskRepo(pool)
	boardRepo := repo.NewBoardRepo(pool)
	taskService := service.NewTaskService(taskRepo, boardRepo)
	ctx := context.Background()

	const goroutines = 10
	const idempKey = "concurrent-test-key"

	var wg sync.WaitGroup
	results := make([]model.Task, goroutines)
	errors := make([]error, goroutines)

	// Запускаем конкурентные создания с одним idempotency-ключом
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			task := model.Task{
				BoardID: boardID,
				Title:   "Concurrent Task",
				Status:  "backlog",
			}
			results[idx], errors[idx] = taskService.Create(ctx, task, userID, idempKey)
		}(i)
	}

	wg.Wait()

	for i, err := range errors {
		require.NoError(t, err, "request %d should not error", i)
	}

	// Ключ сохранился ровно для одного ресурса
	var keys int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM idempotency_keys WHERE key = $1", idempKey).Scan(&keys)
	require.NoError(t, err)
	assert.Equal(t, 1, keys)
}

func TestConcurrent_BulkReordersLastWriteWins(t *testing.T) {
	pool, cleanup := SetupTestDB(t)
	defer cleanup()

	TruncateTables(t, pool)
	userID := SeedUser(t, pool, "lww@test.dev")
	boardID := SeedBoard(t, pool, userID)
	ids := SeedTasks(t, pool, boardID, userID, "backlog", 3)

	taskRepo := repo.NewTaskRepo(pool)
	ctx := context.Background()

	// Две "вкладки" шлют противоположные перестановки одновременно
	forward := []model.OrderUpdate{{ID: ids[0], Order: 0}, {ID: ids[1], Order: 1}, {ID: ids[2], Order: 2}}
	backward := []model.OrderUpdate{{ID: ids[0], Order: 2}, {ID: ids[1], Order: 1}, {ID: ids[2], Order: 0}}

	var wg sync.WaitGroup
	for _, updates := range [][]model.OrderUpdate{forward, backward} {
		wg.Add(1)
		go func(u []model.OrderUpdate) {
			defer wg.Done()
			if err := taskRepo.UpdateOrders(ctx, u); err != nil {
				t.Errorf("UpdateOrders: %v", err)
			}
		}(updates)
	}
	wg.Wait()

	// Каждая задача получила order из одного из двух наборов - по задаче
	// побеждает последняя запись, кросс-задачной атомарности нет
	tasks, err := taskRepo.ListByBoard(ctx, boardID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for _, task := range tasks {
		assert.Contains(t, []int{0, 1, 2}, task.Order)
	}
}

func TestWorker_CompactsOrders(t *testing.T) {
	pool, cleanup := SetupTestDB(t)
	defer cleanup()

	TruncateTables(t, pool)
	userID := SeedUser(t, pool, "compact@test.dev")
	boardID := SeedBoard(t, pool, userID)

	ctx := context.Background()

	// Колонка с дырками в порядке: 1, 5, 9
	for i, order := range []int{1, 5, 9} {
		_, err := pool.Exec(ctx, `
			INSERT INTO tasks (board_id, title, status, priority, owner_id, "order")
			VALUES ($1, $2, 'backlog', 'medium', $3, $4)
		`, boardID, string(rune('A'+i)), userID, order)
		require.NoError(t, err)
	}

	compactor := worker.NewPool(pool, zap.NewNop(), 1, 50*time.Millisecond)
	compactor.Start(ctx)
	defer compactor.Stop()

	compacted := WaitForCondition(t, 5*time.Second, func() bool {
		var max int
		if err := pool.QueryRow(ctx, `SELECT MAX("order") FROM tasks WHERE board_id = $1`, boardID).Scan(&max); err != nil {
			return false
		}
		return max == 2
	})
	require.True(t, compacted, "orders should be compacted to 0..2")

	// Относительный порядок сохранен
	rows, err := pool.Query(ctx, `SELECT title FROM tasks WHERE board_id = $1 ORDER BY "order"`, boardID)
	require.NoError(t, err)
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		require.NoError(t, rows.Scan(&title))
		titles = append(titles, title)
	}
	assert.Equal(t, []string{"A", "B", "C"}, titles)
}
