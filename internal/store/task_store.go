package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/task-service/internal/model"
)

// CreateTask inserts a new task, assigning its id and timestamps.
// The status defaults to pending when unset.
func (s *SQLiteStore) CreateTask(ctx context.Context, in model.NewTask) (*model.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, &model.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if in.Status == "" {
		in.Status = model.StatusPending
	}
	if _, err := model.ParseStatus(string(in.Status)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := model.Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (title, description, due_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		task.Title, task.Description, task.DueDate, string(task.Status),
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return nil, &model.StorageError{Op: "creating task", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, &model.StorageError{Op: "reading new task id", Err: err}
	}
	task.ID = id

	return &task, nil
}

// GetTask retrieves a single task by id.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT id, title, description, due_date, status, created_at, updated_at
		FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, &model.StorageError{Op: fmt.Sprintf("getting task %d", id), Err: err}
	}
	return &task, nil
}

// ListTasks retrieves tasks matching the filter. Results are ordered
// by id ascending so a fixed store state always lists the same way.
func (s *SQLiteStore) ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query, args := buildTaskQuery(
		"SELECT id, title, description, due_date, status, created_at, updated_at", filter)
	query += " ORDER BY id ASC"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, &model.StorageError{Op: "querying tasks", Err: err}
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, &model.StorageError{Op: "scanning task row", Err: err}
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StorageError{Op: "iterating task rows", Err: err}
	}
	return tasks, nil
}

// UpdateTask applies the set fields of patch, leaving the rest
// untouched, and refreshes updated_at. An empty patch returns the task
// unchanged without touching updated_at.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (*model.Task, error) {
	if patch.Empty() {
		return s.GetTask(ctx, id)
	}

	var sets []string
	var args []interface{}

	if patch.Title.Set {
		if strings.TrimSpace(patch.Title.Value) == "" {
			return nil, &model.ValidationError{Field: "title", Reason: "must not be empty"}
		}
		sets = append(sets, "title = ?")
		args = append(args, patch.Title.Value)
	}
	if patch.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, patch.Description.Value)
	}
	if patch.DueDate.Set {
		sets = append(sets, "due_date = ?")
		args = append(args, patch.DueDate.Value)
	}
	if patch.Status.Set {
		if _, err := model.ParseStatus(string(patch.Status.Value)); err != nil {
			return nil, err
		}
		sets = append(sets, "status = ?")
		args = append(args, string(patch.Status.Value))
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, &model.StorageError{Op: fmt.Sprintf("updating task %d", id), Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, &model.StorageError{Op: fmt.Sprintf("updating task %d", id), Err: err}
	}
	if rows == 0 {
		return nil, model.ErrNotFound
	}

	return s.GetTask(ctx, id)
}

// DeleteTask removes a task permanently. A repeated delete for the
// same id reports ErrNotFound rather than silently succeeding.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return &model.StorageError{Op: fmt.Sprintf("deleting task %d", id), Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &model.StorageError{Op: fmt.Sprintf("deleting task %d", id), Err: err}
	}
	if rows == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CountTasks returns the number of tasks matching the filter.
func (s *SQLiteStore) CountTasks(ctx context.Context, filter TaskFilter) (int, error) {
	query, args := buildTaskQuery("SELECT COUNT(*)", filter)

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, &model.StorageError{Op: "counting tasks", Err: err}
	}
	return count, nil
}

// buildTaskQuery constructs the SQL query and args for a TaskFilter.
func buildTaskQuery(selectClause string, filter TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}

	query := selectClause + " FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	return query, args
}

// scanTask scans a task row from either a sqlx.Row or sqlx.Rows.
// The raw scan error is returned so callers can detect sql.ErrNoRows.
func scanTask(row interface{ Scan(dest ...interface{}) error }) (model.Task, error) {
	var (
		task    model.Task
		dueDate *time.Time
		status  string
	)

	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &dueDate, &status,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	task.DueDate = dueDate
	task.Status = model.Status(status)
	return task, nil
}
