package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/virenradadiya3/todo/internal/application"
	"github.com/virenradadiya3/todo/internal/domain/entity"
	"github.com/virenradadiya3/todo/internal/interface/middleware"
	"github.com/virenradadiya3/todo/pkg/response"
	"github.com/virenradadiya3/todo/pkg/validation"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
	Env    string
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger, env string) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger, Env: env}
}

type createTodoRequest struct {
	TodoTitle       string     `json:"todoTitle" binding:"required"`
	TodoDescription string     `json:"todoDescription"`
	TodoStatus      string     `json:"todoStatus"`
	TodoDeadline    *time.Time `json:"todoDeadline"`
}

func (h *TaskHandler) detail(err error) any {
	if h.Env == "development" && err != nil {
		return err.Error()
	}
	return nil
}

func (h *TaskHandler) logError(c *gin.Context, msg string, err error) {
	h.Logger.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"real_ip":    c.GetString("real_ip"),
	}).Error(msg)
}

// mapTaskError translates service errors into the API's status codes. Returns
// false when err was nil.
func (h *TaskHandler) mapTaskError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, application.ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, "Task not found", nil)
	case errors.Is(err, application.ErrNotTaskOwner):
		response.Error(c, http.StatusForbidden, "User not authorized", nil)
	case errors.Is(err, application.ErrInvalidTaskID):
		response.Error(c, http.StatusBadRequest, "Invalid task ID format", nil)
	case errors.Is(err, application.ErrTitleRequired):
		response.Error(c, http.StatusBadRequest, "Task title is required", nil)
	case errors.Is(err, application.ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "Invalid task status", nil)
	default:
		h.logError(c, "task operation failed", err)
		response.Error(c, http.StatusInternalServerError, "Server error", h.detail(err))
	}
	return true
}

// Create handles POST /todoItems/createTodo
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.CreateTaskInput{
		Title:       req.TodoTitle,
		Description: req.TodoDescription,
		Status:      req.TodoStatus,
		Deadline:    req.TodoDeadline,
	})
	if h.mapTaskError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, t)
}

// List handles GET /todoItems/getAllTodos
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.Svc.ListByOwner(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if h.mapTaskError(c, err) {
		return
	}

	if len(tasks) == 0 {
		response.List(c, http.StatusOK, "No tasks found", []entity.Task{}, 0)
		return
	}
	response.List(c, http.StatusOK, "Tasks retrieved successfully", tasks, len(tasks))
}

// Get handles GET /todoItems/getTodo/:id
func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if h.mapTaskError(c, err) {
		return
	}

	c.JSON(http.StatusOK, t)
}

// mutableTaskFields is the allow-list for partial updates. Anything else in
// the request body is rejected, never silently persisted.
var mutableTaskFields = map[string]struct{}{
	"todoTitle":       {},
	"todoDescription": {},
	"todoStatus":      {},
	"todoDeadline":    {},
}

func parseTaskChanges(raw map[string]json.RawMessage) (entity.TaskChanges, error) {
	var changes entity.TaskChanges
	for key := range raw {
		if _, ok := mutableTaskFields[key]; !ok {
			return changes, fmt.Errorf("unknown field: %s", key)
		}
	}

	unmarshal := func(key string, dst any) error {
		v, ok := raw[key]
		if !ok || string(v) == "null" {
			return nil
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("invalid value for %s", key)
		}
		return nil
	}

	var title, description, status *string
	var deadline *time.Time
	if err := unmarshal("todoTitle", &title); err != nil {
		return changes, err
	}
	if err := unmarshal("todoDescription", &description); err != nil {
		return changes, err
	}
	if err := unmarshal("todoStatus", &status); err != nil {
		return changes, err
	}
	if err := unmarshal("todoDeadline", &deadline); err != nil {
		return changes, err
	}

	changes.Title = title
	changes.Description = description
	if status != nil {
		st := entity.TaskStatus(*status)
		changes.Status = &st
	}
	changes.Deadline = deadline
	return changes, nil
}

// Update handles PUT /todoItems/updateTodo/:id with a partial body.
func (h *TaskHandler) Update(c *gin.Context) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
		return
	}

	changes, err := parseTaskChanges(raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	t, err := h.Svc.Update(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), changes)
	if h.mapTaskError(c, err) {
		return
	}

	response.Data(c, http.StatusOK, "Task updated successfully", t)
}

// Delete handles DELETE /todoItems/deleteTodo/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	t, err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if h.mapTaskError(c, err) {
		return
	}

	response.Data(c, http.StatusOK, "Task removed successfully", t)
}

// Search handles GET /todoItems/searchTodos?q=
func (h *TaskHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error(c, http.StatusBadRequest, "Search query is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), q, size)
	if h.mapTaskError(c, err) {
		return
	}

	if len(hits) == 0 {
		response.List(c, http.StatusOK, "No tasks found", hits, 0)
		return
	}
	response.List(c, http.StatusOK, "Tasks retrieved successfully", hits, len(hits))
}
