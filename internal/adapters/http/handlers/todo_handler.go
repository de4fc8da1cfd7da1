package handlers

import (
	"net/http"

	"github.com/taskfolio/todo-service/internal/adapters/http/dto"
	"github.com/taskfolio/todo-service/internal/ports"
)

// TodoHandler handles HTTP requests for todo CRUD, status transitions, and
// aggregate stats. Every handler resolves the owner identity first; the
// service and repository below never see requests without one.
type TodoHandler struct {
	service ports.TodoService
}

// NewTodoHandler creates a new TodoHandler with the given service port.
func NewTodoHandler(service ports.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// ListTodos handles GET /api/todos.
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	ownerID, err := owner(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	query := dto.ParseListQuery(r.URL.Query())

	page, err := h.service.ListTodos(r.Context(), ownerID, query)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewTodoListEnvelope(page))
}

// GetTodo handles GET /api/todos/{id}.
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	ownerID, err := owner(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	t, err := h.service.GetTodo(r.Context(), ownerID, todoID(r))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewTodoEnvelope(t))
}

// CreateTodo handles POST /api/todos.
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	ownerID, err := owner(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	t := decodeTodoBody(w, r)
	if t == nil {
		return
	}

	created, err := h.service.CreateTodo(r.Context(), ownerID, t)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewTodoEnvelope(created))
}

// UpdateTodo handles PUT /api/todos/{id}.
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	ownerID, err := owner(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	t := decodeTodoBody(w, r)
	if t == nil {
		return
	}

	updated, err := h.service.UpdateTodo(r.Context(), ownerID, todoID(r), t)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewTodoEnvelope(updated))
}

// DeleteTodo handles DELETE /api/todos/{id}.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	ownerID, err := owner(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.service.DeleteTodo(r.Context(), ownerID, todoID(r)); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DeleteEnvelope{Success: true})
}

// CompleteTodo handles PATCH /api/todos/{id}/complete.
func (h *TodoHandler) CompleteTodo(w http.ResponseWriter, r *http.Request) {
	ownerID, err := owner(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	t, err := h.service.CompleteTodo(r.Context(), ownerID, todoID(r))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewTodoEnvelope(t))
}

// ReopenTodo handles PATCH /api/todos/{id}/pending.
func (h *TodoHandler) ReopenTodo(w http.ResponseWriter, r *http.Request) {
	ownerID, err := owner(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	t, err := h.service.ReopenTodo(r.Context(), ownerID, todoID(r))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewTodoEnvelope(t))
}

// TodoStats handles GET /api/todos/stats.
func (h *TodoHandler) TodoStats(w http.ResponseWriter, r *http.Request) {
	ownerID, err := owner(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	stats, err := h.service.TodoStats(r.Context(), ownerID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewStatsEnvelope(stats))
}
