package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/virenradadiya3/todo/internal/domain/entity"
	repo "github.com/virenradadiya3/todo/internal/domain/repository"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrNotTaskOwner  = errors.New("user not authorized")
	ErrInvalidTaskID = errors.New("invalid task ID format")
	ErrTitleRequired = errors.New("task title is required")
	ErrInvalidStatus = errors.New("invalid task status")
)

// TaskService owns the owner-scoped task CRUD plus the search index.
type TaskService struct {
	Tasks        repo.TaskRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESTasksIndex string
}

func NewTaskService(tasks repo.TaskRepository, logger *logrus.Logger, es *elasticsearch.Client, esTasksIndex string) *TaskService {
	return &TaskService{Tasks: tasks, Logger: logger, ES: es, ESTasksIndex: esTasksIndex}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Deadline    *time.Time
}

func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*entity.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	t := &entity.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      entity.NormalizeStatus(in.Status),
		Deadline:    in.Deadline,
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	s.indexTask(ctx, t)
	return t, nil
}

func (s *TaskService) ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error) {
	return s.Tasks.ListByOwner(ctx, ownerID)
}

// Get resolves a task for ownerID. Existence is checked before ownership, so
// a foreign task id is reported as not-owned, not as missing.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*entity.Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		// Malformed id in a lookup context reads as a missing task.
		return nil, ErrTaskNotFound
	}
	t, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if t.OwnerID != ownerID {
		return nil, ErrNotTaskOwner
	}
	return t, nil
}

// Update applies a partial update. Only non-nil change fields are written;
// ownership is re-checked before anything is applied.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, changes entity.TaskChanges) (*entity.Task, error) {
	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		changes.Title = &title
	}
	if changes.Status != nil && !changes.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if _, err := s.Get(ctx, ownerID, taskID); err != nil {
		return nil, err
	}

	t, err := s.Tasks.UpdateFields(ctx, taskID, changes)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	s.indexTask(ctx, t)
	return t, nil
}

// Delete removes an owned task and returns the deleted record. The id format
// check runs before any lookup and has its own error.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) (*entity.Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return nil, ErrInvalidTaskID
	}

	t, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if t.OwnerID != ownerID {
		return nil, ErrNotTaskOwner
	}

	deleted, err := s.Tasks.Delete(ctx, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	s.removeFromIndex(ctx, taskID)
	return deleted, nil
}

// Search runs an owner-filtered multi_match over the tasks index.
func (s *TaskService) Search(ctx context.Context, ownerID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{
					{"term": map[string]any{"owner_id": ownerID}},
				},
				"must": []map[string]any{
					{"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description"},
					}},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESTasksIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// indexTask mirrors the task into Elasticsearch, best effort. Search lags a
// failed index write; the store of record is unaffected.
func (s *TaskService) indexTask(ctx context.Context, t *entity.Task) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          t.ID,
		"owner_id":    t.OwnerID,
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status,
		"created_at":  t.CreatedAt.Format(time.RFC3339Nano),
	}
	if t.Deadline != nil {
		doc["deadline"] = t.Deadline.Format(time.RFC3339Nano)
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESTasksIndex, DocumentID: t.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", t.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("task_id", t.ID).Warn("es index response error")
	}
}

func (s *TaskService) removeFromIndex(ctx context.Context, taskID string) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESTasksIndex, DocumentID: taskID}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", taskID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}
