package boardclient

import (
	"sort"

	"github.com/avilov/taskboard/internal/model"
)

// Snapshot - неизменяемый снимок задач одной доски. Все методы-апдейты
// возвращают новый снимок, исходный не трогается.
type Snapshot struct {
	tasks []model.Task
}

func NewSnapshot(tasks []model.Task) Snapshot {
	copied := make([]model.Task, len(tasks))
	copy(copied, tasks)
	return Snapshot{tasks: copied}
}

func (s Snapshot) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s Snapshot) Len() int { return len(s.tasks) }

func (s Snapshot) Task(id int64) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Column возвращает задачи колонки, отсортированные по order по возрастанию.
// Сортировка стабильная: при равных order сохраняется порядок с сервера.
func (s Snapshot) Column(status string) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// MaxOrder возвращает максимальный order в колонке; ok == false для пустой колонки.
func (s Snapshot) MaxOrder(status string) (int, bool) {
	max, found := 0, false
	for _, t := range s.tasks {
		if t.Status != status {
			continue
		}
		if !found || t.Order > max {
			max = t.Order
		}
		found = true
	}
	return max, found
}

// WithTaskMoved возвращает снимок, в котором задача id переставлена
// в колонку status на позицию order.
func (s Snapshot) WithTaskMoved(id int64, status string, order int) Snapshot {
	out := s.Tasks()
	for i := range out {
		if out[i].ID == id {
			out[i].Status = status
			out[i].Order = order
			break
		}
	}
	return Snapshot{tasks: out}
}

// WithTask заменяет задачу с тем же id на переданную (например, ответ сервера).
func (s Snapshot) WithTask(t model.Task) Snapshot {
	out := s.Tasks()
	for i := range out {
		if out[i].ID == t.ID {
			out[i] = t
			return Snapshot{tasks: out}
		}
	}
	return Snapshot{tasks: append(out, t)}
}

// WithColumn заменяет содержимое колонки status упорядоченным списком ordered;
// задачи остальных колонок не меняются.
func (s Snapshot) WithColumn(status string, ordered []model.Task) Snapshot {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Status != status {
			out = append(out, t)
		}
	}
	out = append(out, ordered...)
	return Snapshot{tasks: out}
}

// arrayMove перемещает элемент с индекса from на индекс to со сдвигом
// остальных (стабильная вставка, не обмен).
func arrayMove(tasks []model.Task, from, to int) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	out = append(out, tasks...)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]model.Task{moved}, out[to:]...)...)
	return out
}
