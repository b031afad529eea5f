package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nhle/task-service/internal/model"
	"github.com/nhle/task-service/internal/service"
)

// fail maps a domain outcome to its HTTP status and error body.
// Storage failures deliberately surface as a generic 500.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, model.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Detail: "Task not found"})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: verr.Error()})
	default:
		s.logger.Error("request failed", "error", err, "path", c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: "Internal server error"})
	}
}

// parseID extracts the :id route parameter.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: "id", Reason: "must be an integer"}
	}
	return id, nil
}

// createTask handles POST /api/tasks.
func (s *Server) createTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "Invalid request body"})
	}

	task, err := s.tasks.Create(c.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newTaskResponse(*task))
}

// listTasks handles GET /api/tasks.
func (s *Server) listTasks(c *fiber.Ctx) error {
	var filter *string
	if v := c.Query("status"); v != "" {
		filter = &v
	}

	tasks, err := s.tasks.List(c.Context(), filter)
	if err != nil {
		return s.fail(c, err)
	}

	resp := TaskListResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Count: len(tasks),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, newTaskResponse(t))
	}
	return c.JSON(resp)
}

// taskStats handles GET /api/tasks/stats.
func (s *Server) taskStats(c *fiber.Ctx) error {
	stats, err := s.tasks.Stats(c.Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(stats)
}

// getTask handles GET /api/tasks/:id.
func (s *Server) getTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return s.fail(c, err)
	}

	task, err := s.tasks.Get(c.Context(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(newTaskResponse(*task))
}

// updateTask handles PUT /api/tasks/:id.
func (s *Server) updateTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "Invalid request body"})
	}

	task, err := s.tasks.Update(c.Context(), id, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(newTaskResponse(*task))
}

// deleteTask handles DELETE /api/tasks/:id.
func (s *Server) deleteTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.tasks.Delete(c.Context(), id); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(c *fiber.Ctx) error {
	resp := HealthResponse{Status: "healthy", Database: "connected"}
	if err := s.store.Ping(c.Context()); err != nil {
		s.logger.Error("database ping failed", "error", err)
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
	}
	return c.JSON(resp)
}
