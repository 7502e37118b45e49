package model

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	ID          int64           `json:"id"`
	BoardID     int64           `json:"board_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	Color       ColorRef        `json:"color"`
	Owner       UserRef         `json:"owner"`
	Checklist   []ChecklistItem `json:"checklist"`
	Order       int             `json:"order"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// ChecklistDone reports whether the checklist is non-empty and every item is completed.
func (t Task) ChecklistDone() bool {
	if len(t.Checklist) == 0 {
		return false
	}
	for _, item := range t.Checklist {
		if !item.Completed {
			return false
		}
	}
	return true
}

type TaskFilter struct {
	BoardID *int64
	Status  *string
}

// OrderUpdate is a single entry of a bulk reorder payload.
type OrderUpdate struct {
	ID    int64 `json:"id"`
	Order int   `json:"order"`
}
