// Package api exposes the task service over a JSON HTTP interface.
package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nhle/task-service/internal/service"
	"github.com/nhle/task-service/internal/store"
)

// Server wires the task service into a Fiber HTTP application.
type Server struct {
	app    *fiber.App
	tasks  *service.TaskService
	store  store.Store
	logger *slog.Logger
}

// NewServer builds the HTTP server with routes and middleware set up.
func NewServer(tasks *service.TaskService, st store.Store, logger *slog.Logger) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "taskd",
			DisableStartupMessage: true,
		}),
		tasks:  tasks,
		store:  st,
		logger: logger,
	}
	s.app.Use(s.requestLogger)
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.app.Get("/health", s.healthHandler)

	tasks := s.app.Group("/api/tasks")
	tasks.Post("/", s.createTask)
	tasks.Get("/", s.listTasks)
	tasks.Get("/stats", s.taskStats)
	tasks.Get("/:id", s.getTask)
	tasks.Put("/:id", s.updateTask)
	tasks.Delete("/:id", s.deleteTask)
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	requestID := uuid.New().String()
	c.Locals("request_id", requestID)
	c.Set("X-Request-ID", requestID)

	start := time.Now()
	err := c.Next()

	s.logger.Info("request",
		"id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server, waiting for in-flight
// requests up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
