package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Pool периодически уплотняет позиции задач: в каждой колонке каждой
// доски order переписывается в 0..N-1 с сохранением относительного
// порядка. Дырки и дубли накапливаются от переносов между колонками и
// частично примененных bulk-write'ов; уплотнение их убирает, не меняя
// отображаемый порядок.
type Pool struct {
	pool     *pgxpool.Pool
	logger   *zap.Logger
	count    int
	interval time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}
}

func NewPool(pool *pgxpool.Pool, logger *zap.Logger, count int, interval time.Duration) *Pool {
	return &Pool{
		pool:     pool,
		logger:   logger,
		count:    count,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("Starting compaction pool", zap.Int("workers", p.count))

	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool) Stop() {
	p.logger.Info("Stopping compaction pool...")
	close(p.stop)
	p.wg.Wait()
	p.logger.Info("Compaction pool stopped")
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.compactOnce(ctx, id); err != nil {
				p.logger.Error("compaction error", zap.Int("worker", id), zap.Error(err))
			}
		}
	}
}

// compactOnce выполняет один проход уплотнения одним запросом.
// Тай-брейк ранжирования совпадает с сортировкой выдачи задач
// (order, updated_at, id), поэтому относительный порядок не меняется.
func (p *Pool) compactOnce(ctx context.Context, workerID int) error {
	cmd, err := p.pool.Exec(ctx, `
		WITH ranked AS (
			SELECT id,
			       row_number() OVER (
			           PARTITION BY board_id, status
			           ORDER BY "order", updated_at, id
			       ) - 1 AS rn
			FROM tasks
		)
		UPDATE tasks
		SET "order" = ranked.rn
		FROM ranked
		WHERE tasks.id = ranked.id AND tasks."order" <> ranked.rn
	`)
	if err != nil {
		return err
	}

	if n := cmd.RowsAffected(); n > 0 {
		p.logger.Info("Compacted task orders",
			zap.Int("worker", workerID),
			zap.Int64("rows", n),
		)
	}
	return nil
}
