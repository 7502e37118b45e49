package boardclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilov/taskboard/internal/model"
)

func ids(tasks []model.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestArrayMove(t *testing.T) {
	tasks := []model.Task{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	tests := []struct {
		name string
		from int
		to   int
		want []int64
	}{
		{name: "forward", from: 0, to: 2, want: []int64{2, 3, 1, 4}},
		{name: "backward", from: 3, to: 0, want: []int64{4, 1, 2, 3}},
		{name: "same index", from: 1, to: 1, want: []int64{1, 2, 3, 4}},
		{name: "out of range", from: -1, to: 2, want: []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := arrayMove(tasks, tt.from, tt.to)
			assert.Equal(t, tt.want, ids(got))
			// исходный срез не меняется
			assert.Equal(t, []int64{1, 2, 3, 4}, ids(tasks))
		})
	}
}

func TestSnapshot_ColumnSortedByOrder(t *testing.T) {
	snap := NewSnapshot([]model.Task{
		{ID: 1, Status: "todo", Order: 2},
		{ID: 2, Status: "todo", Order: 0},
		{ID: 3, Status: "done", Order: 0},
		{ID: 4, Status: "todo", Order: 1},
	})

	assert.Equal(t, []int64{2, 4, 1}, ids(snap.Column("todo")))
	assert.Equal(t, []int64{3}, ids(snap.Column("done")))
	assert.Empty(t, snap.Column("missing"))
}

func TestSnapshot_ColumnStableOnEqualOrders(t *testing.T) {
	// При равных order сохраняется порядок, в котором задачи пришли с сервера
	snap := NewSnapshot([]model.Task{
		{ID: 1, Status: "todo", Order: 0},
		{ID: 2, Status: "todo", Order: 0},
		{ID: 3, Status: "todo", Order: 0},
	})
	assert.Equal(t, []int64{1, 2, 3}, ids(snap.Column("todo")))
}

func TestSnapshot_MaxOrder(t *testing.T) {
	snap := NewSnapshot([]model.Task{
		{ID: 1, Status: "todo", Order: 0},
		{ID: 2, Status: "todo", Order: 7},
	})

	max, ok := snap.MaxOrder("todo")
	require.True(t, ok)
	assert.Equal(t, 7, max)

	_, ok = snap.MaxOrder("empty")
	assert.False(t, ok)
}

func TestSnapshot_UpdatesAreImmutable(t *testing.T) {
	snap := NewSnapshot([]model.Task{
		{ID: 1, Status: "todo", Order: 0},
		{ID: 2, Status: "todo", Order: 1},
	})

	moved := snap.WithTaskMoved(1, "done", 5)

	before, _ := snap.Task(1)
	assert.Equal(t, "todo", before.Status)

	after, _ := moved.Task(1)
	assert.Equal(t, "done", after.Status)
	assert.Equal(t, 5, after.Order)
}

func TestSnapshot_WithColumnKeepsOtherColumns(t *testing.T) {
	snap := NewSnapshot([]model.Task{
		{ID: 1, Status: "todo", Order: 0},
		{ID: 2, Status: "todo", Order: 1},
		{ID: 3, Status: "done", Order: 0},
	})

	reordered := []model.Task{
		{ID: 2, Status: "todo", Order: 0},
		{ID: 1, Status: "todo", Order: 1},
	}
	next := snap.WithColumn("todo", reordered)

	assert.Equal(t, []int64{2, 1}, ids(next.Column("todo")))
	assert.Equal(t, []int64{3}, ids(next.Column("done")))
	assert.Equal(t, 3, next.Len())
}

func TestSnapshot_WithTaskAppendsUnknown(t *testing.T) {
	snap := NewSnapshot(nil)
	next := snap.WithTask(model.Task{ID: 9, Status: "todo"})

	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, 1, next.Len())
}
