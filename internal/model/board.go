package model

import "time"

type Board struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	CreatorID  int64     `json:"creator_id"`
	TemplateID int64     `json:"template_id"`
	Members    []int64   `json:"members"`
	Columns    []Column  `json:"columns,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasAccess reports whether the user is the board creator or a listed member.
func (b Board) HasAccess(userID int64) bool {
	if b.CreatorID == userID {
		return true
	}
	for _, m := range b.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// DoneColumn returns the column with the highest order, the conventional
// destination for finished tasks. ok is false for a board with no columns.
func (b Board) DoneColumn() (Column, bool) {
	if len(b.Columns) == 0 {
		return Column{}, false
	}
	done := b.Columns[0]
	for _, c := range b.Columns[1:] {
		if c.Order > done.Order {
			done = c
		}
	}
	return done, true
}
