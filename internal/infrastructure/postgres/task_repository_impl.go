package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/virenradadiya3/todo/internal/domain/entity"
	"github.com/virenradadiya3/todo/internal/domain/repository"
)

const taskColumns = "id, owner_id, title, description, status, deadline, created_at"

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func scanTask(row pgx.Row, t *entity.Task) error {
	return row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status, &t.Deadline, &t.CreatedAt)
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (owner_id, title, description, status, deadline)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, t.OwnerID, t.Title, t.Description, t.Status, t.Deadline)

	return row.Scan(&t.ID, &t.CreatedAt)
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0)
	for rows.Next() {
		var t entity.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	t := &entity.Task{}

	row := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id)

	if err := scanTask(row, t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return t, nil
}

// UpdateFields builds a SET list from the supplied changes only, so a partial
// update is a single atomic statement and untouched columns keep their values.
func (r *TaskRepository) UpdateFields(ctx context.Context, id string, changes entity.TaskChanges) (*entity.Task, error) {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if changes.Title != nil {
		add("title", *changes.Title)
	}
	if changes.Description != nil {
		add("description", *changes.Description)
	}
	if changes.Status != nil {
		add("status", *changes.Status)
	}
	if changes.Deadline != nil {
		add("deadline", *changes.Deadline)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE tasks
		SET %s
		WHERE id = $%d
		RETURNING `+taskColumns,
		strings.Join(set, ", "), len(args))

	t := &entity.Task{}
	if err := scanTask(r.pool.QueryRow(ctx, query, args...), t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) (*entity.Task, error) {
	t := &entity.Task{}

	row := r.pool.QueryRow(ctx, `
		DELETE FROM tasks
		WHERE id = $1
		RETURNING `+taskColumns, id)

	if err := scanTask(row, t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return t, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
