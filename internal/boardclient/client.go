package boardclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avilov/taskboard/internal/model"
)

// Client - клиентская сторона протокола перемещения задач: держит
// снимок каждой загруженной доски, применяет перестановки оптимистично
// и сверяет их с сервером.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger

	mu     sync.Mutex
	boards map[int64]*boardState
}

type boardState struct {
	columns  []model.Column
	snapshot Snapshot
	activeID int64 // id перетаскиваемой задачи, 0 если перетаскивания нет
}

func New(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
		boards:  make(map[int64]*boardState),
	}
}

// APIError - ошибка сервера в формате {"success":false,"message":...}
type APIError struct {
	Status  int
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, headers map[string]string) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Load загружает доску и ее задачи, создавая (или замещая) локальный снимок.
func (c *Client) Load(ctx context.Context, boardID int64) (Snapshot, error) {
	var board model.Board
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/boards/%d", boardID), nil, &board, nil); err != nil {
		return Snapshot{}, err
	}

	tasks, err := c.fetchTasks(ctx, boardID)
	if err != nil {
		return Snapshot{}, err
	}

	snap := NewSnapshot(tasks)
	c.mu.Lock()
	c.boards[boardID] = &boardState{columns: board.Columns, snapshot: snap}
	c.mu.Unlock()
	return snap, nil
}

// Refetch перечитывает задачи доски с сервера и замещает локальный снимок,
// отбрасывая любые локальные правки.
func (c *Client) Refetch(ctx context.Context, boardID int64) (Snapshot, error) {
	tasks, err := c.fetchTasks(ctx, boardID)
	if err != nil {
		return Snapshot{}, err
	}

	snap := NewSnapshot(tasks)
	c.mu.Lock()
	if st, ok := c.boards[boardID]; ok {
		st.snapshot = snap
	}
	c.mu.Unlock()
	return snap, nil
}

// ActiveTask возвращает id перетаскиваемой сейчас задачи; 0, если
// перетаскивания нет или доска не загружена.
func (c *Client) ActiveTask(boardID int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.boards[boardID]; ok {
		return st.activeID
	}
	return 0
}

// Snapshot возвращает текущий локальный снимок доски.
func (c *Client) Snapshot(boardID int64) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.boards[boardID]
	if !ok {
		return Snapshot{}, false
	}
	return st.snapshot, true
}

// CreateTask создает задачу с новым idempotency-ключом и добавляет ее в снимок.
func (c *Client) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	var created model.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", t, &created, map[string]string{
		"Idempotency-Key": uuid.NewString(),
	})
	if err != nil {
		return created, err
	}

	c.mu.Lock()
	if st, ok := c.boards[created.BoardID]; ok {
		st.snapshot = st.snapshot.WithTask(created)
	}
	c.mu.Unlock()
	return created, nil
}

func (c *Client) fetchTasks(ctx context.Context, boardID int64) ([]model.Task, error) {
	var tasks []model.Task
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/board/%d", boardID), nil, &tasks, nil)
	return tasks, err
}

func (c *Client) moveTask(ctx context.Context, id int64, status string, order int) (model.Task, error) {
	var moved model.Task
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/move", id), map[string]interface{}{
		"status": status,
		"order":  order,
	}, &moved, nil)
	return moved, err
}

func (c *Client) updateOrders(ctx context.Context, boardID int64, updates []model.OrderUpdate) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/board/%d/orders", boardID), map[string]interface{}{
		"updates": updates,
	}, nil, nil)
}

func (c *Client) putChecklist(ctx context.Context, id int64, items []model.ChecklistItem) (model.Task, error) {
	var updated model.Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d/checklist", id), map[string]interface{}{
		"checklist": items,
	}, &updated, nil)
	return updated, err
}
