package model

// Column is a single workflow stage of a board. The set of columns is fixed
// by the board's template at creation time.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

type Template struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Columns []Column `json:"columns"`
}
