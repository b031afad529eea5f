package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nhle/task-service/internal/api"
	"github.com/nhle/task-service/internal/service"
	"github.com/nhle/task-service/tests/testutil"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()
	st := testutil.NewTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return api.NewServer(service.NewTaskService(st), st, logger)
}

func doJSON(t *testing.T, s *api.Server, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return out
}

func createTask(t *testing.T, s *api.Server, body map[string]any) api.TaskResponse {
	t.Helper()
	resp := doJSON(t, s, http.MethodPost, "/api/tasks/", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	return decode[api.TaskResponse](t, resp)
}

func TestCreateTaskEndpoint(t *testing.T) {
	s := newTestServer(t)

	task := createTask(t, s, map[string]any{
		"title":       "Complete tutorial",
		"description": "Learn the basics",
		"due_date":    "2026-11-25",
		"status":      "in_progress",
	})

	if task.ID != 1 {
		t.Errorf("expected id 1, got %d", task.ID)
	}
	if task.Status != "in_progress" {
		t.Errorf("expected status in_progress, got %s", task.Status)
	}
	if task.DueDate != "2026-11-25" {
		t.Errorf("expected due date 2026-11-25, got %s", task.DueDate)
	}
}

func TestCreateTaskMinimal(t *testing.T) {
	s := newTestServer(t)

	task := createTask(t, s, map[string]any{"title": "Minimal"})
	if task.Status != "pending" {
		t.Errorf("expected default status pending, got %s", task.Status)
	}
	if task.DueDate != "" {
		t.Errorf("expected no due date, got %s", task.DueDate)
	}
}

func TestCreateTaskValidationFailures(t *testing.T) {
	s := newTestServer(t)

	for name, body := range map[string]map[string]any{
		"empty title":    {"title": ""},
		"invalid status": {"title": "x", "status": "archived"},
		"malformed date": {"title": "x", "due_date": "tomorrow"},
	} {
		resp := doJSON(t, s, http.MethodPost, "/api/tasks/", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, resp.StatusCode)
		}
		errResp := decode[api.ErrorResponse](t, resp)
		if errResp.Detail == "" {
			t.Errorf("%s: expected error detail", name)
		}
	}
}

func TestListTasksWithFilter(t *testing.T) {
	s := newTestServer(t)

	createTask(t, s, map[string]any{"title": "a", "status": "pending"})
	createTask(t, s, map[string]any{"title": "b", "status": "pending"})
	createTask(t, s, map[string]any{"title": "c", "status": "completed"})

	resp := doJSON(t, s, http.MethodGet, "/api/tasks/?status=pending", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	list := decode[api.TaskListResponse](t, resp)
	if list.Count != 2 || len(list.Tasks) != 2 {
		t.Errorf("expected 2 pending tasks, got count=%d len=%d", list.Count, len(list.Tasks))
	}
	for _, task := range list.Tasks {
		if task.Status != "pending" {
			t.Errorf("unexpected status %s in filtered list", task.Status)
		}
	}
}

func TestListTasksInvalidFilter(t *testing.T) {
	s := newTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/api/tasks/?status=archived", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad filter, got %d", resp.StatusCode)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	s := newTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/api/tasks/999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	errResp := decode[api.ErrorResponse](t, resp)
	if errResp.Detail != "Task not found" {
		t.Errorf("unexpected detail %q", errResp.Detail)
	}
}

func TestGetTaskNonIntegerID(t *testing.T) {
	s := newTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/api/tasks/abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	s := newTestServer(t)

	created := createTask(t, s, map[string]any{
		"title":       "keep title",
		"description": "keep description",
	})

	resp := doJSON(t, s, http.MethodPut,
		fmt.Sprintf("/api/tasks/%d", created.ID),
		map[string]any{"status": "completed"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	updated := decode[api.TaskResponse](t, resp)
	if updated.Title != "keep title" || updated.Description != "keep description" {
		t.Errorf("partial update touched other fields: %+v", updated)
	}
	if updated.Status != "completed" {
		t.Errorf("expected status completed, got %s", updated.Status)
	}
}

func TestUpdateTaskNullClearsDescription(t *testing.T) {
	s := newTestServer(t)

	created := createTask(t, s, map[string]any{
		"title":       "clear me",
		"description": "going away",
	})

	resp := doJSON(t, s, http.MethodPut,
		fmt.Sprintf("/api/tasks/%d", created.ID),
		map[string]any{"description": nil})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	updated := decode[api.TaskResponse](t, resp)
	if updated.Description != "" {
		t.Errorf("expected description cleared, got %q", updated.Description)
	}
}

func TestUpdateTaskNullTitleRejected(t *testing.T) {
	s := newTestServer(t)

	created := createTask(t, s, map[string]any{"title": "immutable requirement"})

	resp := doJSON(t, s, http.MethodPut,
		fmt.Sprintf("/api/tasks/%d", created.ID),
		map[string]any{"title": nil})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for null title, got %d", resp.StatusCode)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	s := newTestServer(t)

	resp := doJSON(t, s, http.MethodPut, "/api/tasks/999",
		map[string]any{"status": "completed"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTestServer(t)

	created := createTask(t, s, map[string]any{"title": "short lived"})
	path := fmt.Sprintf("/api/tasks/%d", created.ID)

	resp := doJSON(t, s, http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp = doJSON(t, s, http.MethodGet, path, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", resp.StatusCode)
	}

	resp = doJSON(t, s, http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestTaskStatsEndpoint(t *testing.T) {
	s := newTestServer(t)

	createTask(t, s, map[string]any{"title": "a", "status": "pending"})
	createTask(t, s, map[string]any{"title": "b", "status": "completed"})

	resp := doJSON(t, s, http.MethodGet, "/api/tasks/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	stats := decode[service.TaskStats](t, resp)
	if stats.Total != 2 || stats.Pending != 1 || stats.Completed != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	health := decode[api.HealthResponse](t, resp)
	if health.Status != "healthy" || health.Database != "connected" {
		t.Errorf("unexpected health response: %+v", health)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/health", nil)
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on response")
	}
}
