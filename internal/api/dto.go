package api

import (
	"time"

	"github.com/nhle/task-service/internal/model"
)

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/:id. Fields use
// model.Optional so an absent key and an explicit null stay distinct.
type UpdateTaskRequest struct {
	Title       model.Optional[string] `json:"title"`
	Description model.Optional[string] `json:"description"`
	DueDate     model.Optional[string] `json:"due_date"`
	Status      model.Optional[string] `json:"status"`
}

// TaskResponse mirrors model.Task on the wire, with the due date
// rendered as a bare date.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     string    `json:"due_date,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// newTaskResponse converts a task into its wire representation.
func newTaskResponse(t model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate != nil {
		resp.DueDate = t.DueDate.Format("2006-01-02")
	}
	return resp
}

// TaskListResponse is the body of GET /api/tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
