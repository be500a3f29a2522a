package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

const taskColumns = `id, owner_id, title, description, status, priority, due_at, assigner, created_at, updated_at`

// FetchTasks returns every task of ownerID, or every task when ownerID is empty.
func (s *Store) FetchTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if ownerID == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at, id`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask returns the owner's task with id.
func (s *Store) GetTask(ctx context.Context, ownerID, id string) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	t, err := s.scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	return t, err
}

// CreateTask stores t, assigning an ID when it has none.
func (s *Store) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return model.Task{}, errors.New("task title is empty")
	}
	if t.OwnerID == "" {
		return model.Task{}, errors.New("task owner is empty")
	}
	if t.ID == "" {
		t.ID = newID()
	}
	if !t.Status.Valid() {
		t.Status = model.StatusTodo
	}
	now := s.now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Title, t.Description, string(t.Status), string(t.Priority),
		t.DueAt.String(), t.Assigner, formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}
	return t, nil
}

// UpdateTask overwrites the owner's task t.ID.
func (s *Store) UpdateTask(ctx context.Context, t model.Task) (model.Task, error) {
	t.UpdatedAt = s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, due_at = ?, assigner = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		t.Title, t.Description, string(t.Status), string(t.Priority), t.DueAt.String(), t.Assigner,
		formatTime(t.UpdatedAt), t.ID, t.OwnerID)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Task{}, ErrNotFound
	}
	return t, nil
}

// UpsertTask inserts t or overwrites the stored task with the same ID and
// owner. Imports use it so re-running an import is idempotent.
func (s *Store) UpsertTask(ctx context.Context, t model.Task) (model.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" || t.ID == "" || t.OwnerID == "" {
		return model.Task{}, errors.New("upsert needs id, title and owner")
	}
	if !t.Status.Valid() {
		t.Status = model.StatusTodo
	}
	now := s.now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	res, err := s.db.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, description = excluded.description,
			status = excluded.status, priority = excluded.priority, due_at = excluded.due_at,
			assigner = excluded.assigner, updated_at = excluded.updated_at
		WHERE tasks.owner_id = excluded.owner_id`,
		t.ID, t.OwnerID, t.Title, t.Description, string(t.Status), string(t.Priority),
		t.DueAt.String(), t.Assigner, formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to upsert task: %w", err)
	}
	// the conflict clause skips rows owned by someone else
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Task{}, fmt.Errorf("%w: task %s", ErrConflict, t.ID)
	}
	return t, nil
}

// DeleteTask removes the owner's task with id.
func (s *Store) DeleteTask(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanTask(r scanner) (model.Task, error) {
	var (
		t                     model.Task
		status, priority, due string
		createdAt, updatedAt  string
	)
	if err := r.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &status, &priority, &due, &t.Assigner, &createdAt, &updatedAt); err != nil {
		return model.Task{}, err
	}
	t.Status = model.Status(status)
	t.Priority = model.Priority(priority)
	t.DueAt = model.ParseDueTime(due, s.loc)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}
