// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskfolio/todo-service/internal/adapters/http/handlers"
	"github.com/taskfolio/todo-service/internal/adapters/http/middleware"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given; the owner-identity
// boundary applies only to /api routes so health probes stay unauthenticated.
func NewRouter(
	todoHandler *handlers.TodoHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.OwnerIdentity())

		// The stats route must be registered before /todos/{id} so that
		// "stats" is never captured as an id.
		r.Get("/todos/stats", todoHandler.TodoStats)

		r.Get("/todos", todoHandler.ListTodos)
		r.Post("/todos", todoHandler.CreateTodo)
		r.Get("/todos/{id}", todoHandler.GetTodo)
		r.Put("/todos/{id}", todoHandler.UpdateTodo)
		r.Delete("/todos/{id}", todoHandler.DeleteTodo)
		r.Patch("/todos/{id}/complete", todoHandler.CompleteTodo)
		r.Patch("/todos/{id}/pending", todoHandler.ReopenTodo)
	})

	return r
}
