package boardclient

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/avilov/taskboard/internal/model"
)

// HandleDrop переводит жест drag-and-drop (активная задача + цель сброса)
// в перенос между колонками или перестановку внутри колонки.
//
// overID - либо id колонки, либо id другой задачи в десятичной записи.
// Оптимистичное обновление всегда применяется до сетевого вызова; при
// неудаче одиночный перенос откатывается локально, а неудавшийся
// bulk-reorder лечится полной перезагрузкой доски.
func (c *Client) HandleDrop(ctx context.Context, boardID, activeTaskID int64, overID string) error {
	c.mu.Lock()
	st, ok := c.boards[boardID]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("board %d is not loaded", boardID)
	}
	st.activeID = activeTaskID

	task, ok := st.snapshot.Task(activeTaskID)
	if !ok || overID == "" {
		st.activeID = 0
		c.mu.Unlock()
		return nil
	}

	target, ok := resolveColumn(st, overID)
	if !ok { // цель не относится к доске, бросок мимо
		st.activeID = 0
		c.mu.Unlock()
		return nil
	}

	if target.ID != task.Status {
		return c.crossColumnMoveLocked(ctx, st, task, target)
	}

	// Перестановка внутри колонки имеет смысл только при сбросе на другую задачу
	overTaskID, isTask := parseTaskID(st, overID)
	if !isTask || overTaskID == activeTaskID {
		st.activeID = 0
		c.mu.Unlock()
		return nil
	}

	column := st.snapshot.Column(task.Status)
	from, to := indexOf(column, activeTaskID), indexOf(column, overTaskID)
	reordered := arrayMove(column, from, to)
	updates := make([]model.OrderUpdate, len(reordered))
	for i := range reordered {
		reordered[i].Order = i
		updates[i] = model.OrderUpdate{ID: reordered[i].ID, Order: i}
	}

	st.snapshot = st.snapshot.WithColumn(task.Status, reordered)
	st.activeID = 0
	c.mu.Unlock()

	if err := c.updateOrders(ctx, boardID, updates); err != nil {
		// Частично примененный bulk-write мог разойтись с локальным
		// состоянием, поэтому откат невозможен - только полная сверка.
		c.logger.Warn("bulk reorder failed, refetching board",
			zap.Int64("board_id", boardID), zap.Error(err))
		if _, err := c.Refetch(ctx, boardID); err != nil {
			return err
		}
	}
	return nil
}

// crossColumnMoveLocked выполняет перенос задачи в другую колонку.
// Вызывается с удержанным c.mu и отпускает его сам.
func (c *Client) crossColumnMoveLocked(ctx context.Context, st *boardState, task model.Task, target model.Column) error {
	newOrder := 0
	if max, ok := st.snapshot.MaxOrder(target.ID); ok {
		newOrder = max + 1
	}
	prevStatus, prevOrder := task.Status, task.Order

	st.snapshot = st.snapshot.WithTaskMoved(task.ID, target.ID, newOrder)
	st.activeID = 0
	c.mu.Unlock()

	moved, err := c.moveTask(ctx, task.ID, target.ID, newOrder)
	if err != nil {
		// Одиночный перенос откатывается дешево - возвращаем прежние
		// status/order. Ошибка не фатальна для вызывающего.
		c.logger.Warn("move failed, rolling back",
			zap.Int64("task_id", task.ID), zap.String("status", target.ID), zap.Error(err))
		c.mu.Lock()
		st.snapshot = st.snapshot.WithTaskMoved(task.ID, prevStatus, prevOrder)
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	st.snapshot = st.snapshot.WithTask(moved)
	c.mu.Unlock()
	return nil
}

// SetChecklistItem отмечает пункт чеклиста и сохраняет его на сервере.
// Если после отметки чеклист непустой и полностью выполнен, задача
// автоматически переносится в колонку с наибольшим order ("done" по
// принятому соглашению). Это клиентская эвристика, сервер ее не навязывает.
func (c *Client) SetChecklistItem(ctx context.Context, boardID, taskID int64, index int, completed bool) (model.Task, error) {
	c.mu.Lock()
	st, ok := c.boards[boardID]
	if !ok {
		c.mu.Unlock()
		return model.Task{}, fmt.Errorf("board %d is not loaded", boardID)
	}
	task, ok := st.snapshot.Task(taskID)
	if !ok {
		c.mu.Unlock()
		return model.Task{}, fmt.Errorf("task %d is not on board %d", taskID, boardID)
	}
	if index < 0 || index >= len(task.Checklist) {
		c.mu.Unlock()
		return model.Task{}, fmt.Errorf("checklist index %d out of range", index)
	}

	items := make([]model.ChecklistItem, len(task.Checklist))
	copy(items, task.Checklist)
	items[index].Completed = completed
	c.mu.Unlock()

	updated, err := c.putChecklist(ctx, taskID, items)
	if err != nil {
		return model.Task{}, err
	}

	c.mu.Lock()
	st.snapshot = st.snapshot.WithTask(updated)

	done, hasColumns := doneColumn(st.columns)
	if updated.ChecklistDone() && hasColumns && updated.Status != done.ID {
		return updated, c.crossColumnMoveLocked(ctx, st, updated, done)
	}
	c.mu.Unlock()
	return updated, nil
}

// resolveColumn находит целевую колонку: сначала overID сверяется с id
// колонок доски, затем трактуется как id задачи - тогда целью считается
// ее текущая колонка.
func resolveColumn(st *boardState, overID string) (model.Column, bool) {
	for _, col := range st.columns {
		if col.ID == overID {
			return col, true
		}
	}
	if taskID, ok := parseTaskID(st, overID); ok {
		if t, ok := st.snapshot.Task(taskID); ok {
			for _, col := range st.columns {
				if col.ID == t.Status {
					return col, true
				}
			}
		}
	}
	return model.Column{}, false
}

func parseTaskID(st *boardState, overID string) (int64, bool) {
	id, err := strconv.ParseInt(overID, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	if _, ok := st.snapshot.Task(id); !ok {
		return 0, false
	}
	return id, true
}

func indexOf(tasks []model.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func doneColumn(columns []model.Column) (model.Column, bool) {
	if len(columns) == 0 {
		return model.Column{}, false
	}
	done := columns[0]
	for _, col := range columns[1:] {
		if col.Order > done.Order {
			done = col
		}
	}
	return done, true
}
