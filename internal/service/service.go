// Package service validates and normalizes inbound task data before it
// reaches the store, and keeps store failures in their own error
// category so the request boundary can map outcomes cleanly.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/task-service/internal/model"
	"github.com/nhle/task-service/internal/store"
)

// dateLayout is the wire format for due dates.
const dateLayout = "2006-01-02"

// CreateTaskInput carries the decoded fields of a create request.
// Optional fields are pointers so "not sent" stays distinguishable.
type CreateTaskInput struct {
	Title       string
	Description *string
	DueDate     *string // YYYY-MM-DD
	Status      *string
}

// UpdateTaskInput carries the decoded fields of a partial update.
// A zero Optional means the field was not sent and stays untouched.
type UpdateTaskInput struct {
	Title       model.Optional[string]
	Description model.Optional[string]
	DueDate     model.Optional[string] // YYYY-MM-DD
	Status      model.Optional[string]
}

// TaskStats aggregates per-status task counts.
type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// TaskService sits directly above the Store. The store dependency is
// injected so tests can substitute an in-memory store.
type TaskService struct {
	store store.Store
}

// NewTaskService creates a TaskService backed by s.
func NewTaskService(s store.Store) *TaskService {
	return &TaskService{store: s}
}

// Create validates and normalizes input, then persists a new task.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*model.Task, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}

	nt := model.NewTask{Title: title, Status: model.StatusPending}

	if in.Description != nil {
		nt.Description = strings.TrimSpace(*in.Description)
	}
	if in.DueDate != nil && *in.DueDate != "" {
		due, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		nt.DueDate = &due
	}
	if in.Status != nil && *in.Status != "" {
		status, err := model.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		nt.Status = status
	}

	return s.store.CreateTask(ctx, nt)
}

// Get retrieves a task by id.
func (s *TaskService) Get(ctx context.Context, id int64) (*model.Task, error) {
	return s.store.GetTask(ctx, id)
}

// List retrieves tasks, optionally narrowed to a single status. An
// unknown filter value is rejected here: passing it through would
// return an empty list, indistinguishable from "no tasks".
func (s *TaskService) List(ctx context.Context, statusFilter *string) ([]model.Task, error) {
	var filter store.TaskFilter
	if statusFilter != nil && *statusFilter != "" {
		status, err := model.ParseStatus(*statusFilter)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	return s.store.ListTasks(ctx, filter)
}

// Update applies a partial update. A field absent from in is left
// untouched. An explicit null (or empty string) clears description and
// due_date but is rejected for title and status, which are required.
// Status transitions are unrestricted: any status may move to any
// other in a single update.
func (s *TaskService) Update(ctx context.Context, id int64, in UpdateTaskInput) (*model.Task, error) {
	var patch store.TaskPatch

	if in.Title.Set {
		if in.Title.Null {
			return nil, &model.ValidationError{Field: "title", Reason: "cannot be cleared"}
		}
		title, err := normalizeTitle(in.Title.Value)
		if err != nil {
			return nil, err
		}
		patch.Title = model.Some(title)
	}
	if in.Description.Set {
		if in.Description.Null {
			patch.Description = model.Some("")
		} else {
			patch.Description = model.Some(strings.TrimSpace(in.Description.Value))
		}
	}
	if in.DueDate.Set {
		if in.DueDate.Null || in.DueDate.Value == "" {
			patch.DueDate = model.Some[*time.Time](nil)
		} else {
			due, err := parseDueDate(in.DueDate.Value)
			if err != nil {
				return nil, err
			}
			patch.DueDate = model.Some(&due)
		}
	}
	if in.Status.Set {
		if in.Status.Null || in.Status.Value == "" {
			return nil, &model.ValidationError{Field: "status", Reason: "cannot be cleared"}
		}
		status, err := model.ParseStatus(in.Status.Value)
		if err != nil {
			return nil, err
		}
		patch.Status = model.Some(status)
	}

	return s.store.UpdateTask(ctx, id, patch)
}

// Delete removes a task by id.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteTask(ctx, id)
}

// Stats returns total and per-status task counts.
func (s *TaskService) Stats(ctx context.Context) (*TaskStats, error) {
	total, err := s.store.CountTasks(ctx, store.TaskFilter{})
	if err != nil {
		return nil, err
	}

	stats := TaskStats{Total: total}
	for _, st := range []struct {
		status model.Status
		dest   *int
	}{
		{model.StatusPending, &stats.Pending},
		{model.StatusInProgress, &stats.InProgress},
		{model.StatusCompleted, &stats.Completed},
	} {
		status := st.status
		count, err := s.store.CountTasks(ctx, store.TaskFilter{Status: &status})
		if err != nil {
			return nil, err
		}
		*st.dest = count
	}

	return &stats, nil
}

// normalizeTitle trims the title and enforces its constraints.
func normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", &model.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len([]rune(title)) > model.MaxTitleLength {
		return "", &model.ValidationError{
			Field:  "title",
			Reason: fmt.Sprintf("must be at most %d characters", model.MaxTitleLength),
		}
	}
	return title, nil
}

// parseDueDate parses a YYYY-MM-DD date string.
func parseDueDate(raw string) (time.Time, error) {
	due, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, &model.ValidationError{
			Field:  "due_date",
			Reason: "must be a date in YYYY-MM-DD format",
		}
	}
	return due.UTC(), nil
}
