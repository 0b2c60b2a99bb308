package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/virenradadiya3/todo/internal/application"
	"github.com/virenradadiya3/todo/internal/domain/entity"
	repo "github.com/virenradadiya3/todo/internal/domain/repository"
	"github.com/virenradadiya3/todo/internal/interface/middleware"
)

type stubTaskRepo struct {
	tasks map[string]*entity.Task
	clock time.Time
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: map[string]*entity.Task{}, clock: time.Now()}
}

func (r *stubTaskRepo) Create(_ context.Context, t *entity.Task) error {
	t.ID = uuid.NewString()
	r.clock = r.clock.Add(time.Millisecond)
	t.CreatedAt = r.clock
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *stubTaskRepo) ListByOwner(_ context.Context, ownerID string) ([]entity.Task, error) {
	out := []entity.Task{}
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTaskRepo) UpdateFields(_ context.Context, id string, changes entity.TaskChanges) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if changes.Title != nil {
		t.Title = *changes.Title
	}
	if changes.Description != nil {
		t.Description = *changes.Description
	}
	if changes.Status != nil {
		t.Status = *changes.Status
	}
	if changes.Deadline != nil {
		t.Deadline = changes.Deadline
	}
	cp := *t
	return &cp, nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	delete(r.tasks, id)
	return t, nil
}

const testOwnerID = "owner-1"

// newTaskRouter mounts the handler behind a stand-in for the auth guard that
// pins the owner id.
func newTaskRouter(tasks repo.TaskRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := application.NewTaskService(tasks, logger, nil, "")
	h := NewTaskHandler(svc, logger, "test")

	r := gin.New()
	g := r.Group("/todoItems", func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, testOwnerID)
	})
	g.POST("/createTodo", h.Create)
	g.GET("/getAllTodos", h.List)
	g.GET("/getTodo/:id", h.Get)
	g.PUT("/updateTodo/:id", h.Update)
	g.DELETE("/deleteTodo/:id", h.Delete)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestParseTaskChanges(t *testing.T) {
	raw := func(s string) map[string]json.RawMessage {
		var m map[string]json.RawMessage
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			t.Fatalf("bad fixture: %v", err)
		}
		return m
	}

	t.Run("unknown field rejected", func(t *testing.T) {
		if _, err := parseTaskChanges(raw(`{"todoOwner": "someone-else"}`)); err == nil {
			t.Fatal("expected error for non-mutable field")
		}
	})

	t.Run("null values skipped", func(t *testing.T) {
		changes, err := parseTaskChanges(raw(`{"todoTitle": null, "todoStatus": "ongoing"}`))
		if err != nil {
			t.Fatalf("parseTaskChanges: %v", err)
		}
		if changes.Title != nil {
			t.Fatalf("Title = %v, want nil", *changes.Title)
		}
		if changes.Status == nil || *changes.Status != entity.StatusOngoing {
			t.Fatalf("Status = %v, want ongoing", changes.Status)
		}
	})

	t.Run("all mutable fields", func(t *testing.T) {
		changes, err := parseTaskChanges(raw(`{
			"todoTitle": "new title",
			"todoDescription": "new description",
			"todoStatus": "finished",
			"todoDeadline": "2026-09-01T12:00:00Z"
		}`))
		if err != nil {
			t.Fatalf("parseTaskChanges: %v", err)
		}
		if changes.Title == nil || *changes.Title != "new title" {
			t.Fatalf("Title = %v", changes.Title)
		}
		if changes.Description == nil || *changes.Description != "new description" {
			t.Fatalf("Description = %v", changes.Description)
		}
		if changes.Status == nil || *changes.Status != entity.StatusFinished {
			t.Fatalf("Status = %v", changes.Status)
		}
		if changes.Deadline == nil || !changes.Deadline.Equal(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)) {
			t.Fatalf("Deadline = %v", changes.Deadline)
		}
	})

	t.Run("wrong type rejected", func(t *testing.T) {
		if _, err := parseTaskChanges(raw(`{"todoTitle": 42}`)); err == nil {
			t.Fatal("expected error for non-string title")
		}
	})
}

func TestCreateTodoHandler(t *testing.T) {
	r := newTaskRouter(newStubTaskRepo())

	w := do(t, r, http.MethodPost, "/todoItems/createTodo", `{"todoTitle": "buy milk"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["todoTitle"] != "buy milk" {
		t.Fatalf("todoTitle = %v", got["todoTitle"])
	}
	if got["todoStatus"] != "notStarted" {
		t.Fatalf("todoStatus = %v, want notStarted", got["todoStatus"])
	}
	if got["todoOwner"] != testOwnerID {
		t.Fatalf("todoOwner = %v, want %q", got["todoOwner"], testOwnerID)
	}
	if got["_id"] == "" || got["_id"] == nil {
		t.Fatal("_id missing from response")
	}
}

func TestCreateTodoHandlerMissingTitle(t *testing.T) {
	r := newTaskRouter(newStubTaskRepo())

	w := do(t, r, http.MethodPost, "/todoItems/createTodo", `{"todoStatus": "ongoing"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
}

func TestListTodosHandlerEmpty(t *testing.T) {
	r := newTaskRouter(newStubTaskRepo())

	w := do(t, r, http.MethodGet, "/todoItems/getAllTodos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Message string       `json:"message"`
		Data    []entity.Task `json:"data"`
		Count   int          `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "No tasks found" {
		t.Fatalf("message = %q", body.Message)
	}
	if body.Data == nil || len(body.Data) != 0 || body.Count != 0 {
		t.Fatalf("data = %v, count = %d; want empty array and 0", body.Data, body.Count)
	}
}

func TestUpdateTodoHandlerPartial(t *testing.T) {
	tasks := newStubTaskRepo()
	r := newTaskRouter(tasks)

	seed := &entity.Task{OwnerID: testOwnerID, Title: "buy milk", Description: "two liters", Status: entity.StatusNotStarted}
	if err := tasks.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := do(t, r, http.MethodPut, "/todoItems/updateTodo/"+seed.ID, `{"todoStatus": "finished"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var body struct {
		Message string      `json:"message"`
		Data    entity.Task `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "Task updated successfully" {
		t.Fatalf("message = %q", body.Message)
	}
	if body.Data.Status != entity.StatusFinished {
		t.Fatalf("status = %q, want finished", body.Data.Status)
	}
	if body.Data.Title != "buy milk" || body.Data.Description != "two liters" {
		t.Fatalf("untouched fields changed: %+v", body.Data)
	}
}

func TestUpdateTodoHandlerUnknownField(t *testing.T) {
	tasks := newStubTaskRepo()
	r := newTaskRouter(tasks)

	seed := &entity.Task{OwnerID: testOwnerID, Title: "buy milk"}
	if err := tasks.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := do(t, r, http.MethodPut, "/todoItems/updateTodo/"+seed.ID, `{"todoOwner": "someone-else"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
	// The record is untouched after the rejected update.
	if got := tasks.tasks[seed.ID]; got.OwnerID != testOwnerID {
		t.Fatalf("owner changed to %q", got.OwnerID)
	}
}

func TestGetTodoHandlerErrors(t *testing.T) {
	tasks := newStubTaskRepo()
	r := newTaskRouter(tasks)

	foreign := &entity.Task{OwnerID: "someone-else", Title: "not yours"}
	if err := tasks.Create(context.Background(), foreign); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		name       string
		id         string
		wantStatus int
		wantMsg    string
	}{
		{"malformed id", "not-a-uuid", http.StatusNotFound, "Task not found"},
		{"missing id", uuid.NewString(), http.StatusNotFound, "Task not found"},
		{"foreign task", foreign.ID, http.StatusForbidden, "User not authorized"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, "/todoItems/getTodo/"+tc.id, "")
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			var body struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body.Message != tc.wantMsg {
				t.Fatalf("message = %q, want %q", body.Message, tc.wantMsg)
			}
		})
	}
}

func TestDeleteTodoHandlerMalformedID(t *testing.T) {
	r := newTaskRouter(newStubTaskRepo())

	// Delete is the one path where a malformed id is a 400, not a 404.
	w := do(t, r, http.MethodDelete, "/todoItems/deleteTodo/not-a-uuid", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "Invalid task ID format" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestDeleteTodoHandler(t *testing.T) {
	tasks := newStubTaskRepo()
	r := newTaskRouter(tasks)

	seed := &entity.Task{OwnerID: testOwnerID, Title: "buy milk"}
	if err := tasks.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := do(t, r, http.MethodDelete, "/todoItems/deleteTodo/"+seed.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Message string      `json:"message"`
		Data    entity.Task `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "Task removed successfully" {
		t.Fatalf("message = %q", body.Message)
	}
	if body.Data.ID != seed.ID {
		t.Fatalf("deleted id = %q, want %q", body.Data.ID, seed.ID)
	}
	if _, ok := tasks.tasks[seed.ID]; ok {
		t.Fatal("task still present after delete")
	}
}
