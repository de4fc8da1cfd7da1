// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/taskfolio/todo-service/internal/domain/todo"
	"github.com/taskfolio/todo-service/internal/ports"
)

// TodoResponse represents a single todo in HTTP responses.
type TodoResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"ownerId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToTodoResponse converts a domain Todo entity to an HTTP response DTO.
func ToTodoResponse(t *todo.Todo) TodoResponse {
	resp := TodoResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		Priority:    t.Priority.String(),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(time.RFC3339)
		resp.DueDate = &due
	}
	return resp
}

// TodoEnvelope wraps a single todo in the standard success envelope.
type TodoEnvelope struct {
	Success bool         `json:"success"`
	Data    TodoResponse `json:"data"`
}

// NewTodoEnvelope wraps a domain Todo in a success envelope.
func NewTodoEnvelope(t *todo.Todo) TodoEnvelope {
	return TodoEnvelope{Success: true, Data: ToTodoResponse(t)}
}

// TodoListEnvelope wraps a page of todos with pagination metadata in the
// standard success envelope. Data is always a non-nil array, even for pages
// past the end of the result set.
type TodoListEnvelope struct {
	Success     bool           `json:"success"`
	Data        []TodoResponse `json:"data"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	TotalCount  int64          `json:"totalCount"`
}

// NewTodoListEnvelope wraps a service page result in a success envelope.
func NewTodoListEnvelope(page *ports.TodoPage) TodoListEnvelope {
	items := make([]TodoResponse, len(page.Todos))
	for i := range page.Todos {
		items[i] = ToTodoResponse(&page.Todos[i])
	}
	return TodoListEnvelope{
		Success:     true,
		Data:        items,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		TotalCount:  page.TotalCount,
	}
}

// StatsResponse represents the per-owner aggregate counts in HTTP responses.
type StatsResponse struct {
	TotalTodos          int64 `json:"totalTodos"`
	CompletedTodos      int64 `json:"completedTodos"`
	PendingTodos        int64 `json:"pendingTodos"`
	HighPriorityTodos   int64 `json:"highPriorityTodos"`
	MediumPriorityTodos int64 `json:"mediumPriorityTodos"`
	LowPriorityTodos    int64 `json:"lowPriorityTodos"`
}

// StatsEnvelope wraps a stats snapshot in the standard success envelope.
type StatsEnvelope struct {
	Success bool          `json:"success"`
	Data    StatsResponse `json:"data"`
}

// NewStatsEnvelope wraps domain stats in a success envelope.
func NewStatsEnvelope(s *todo.Stats) StatsEnvelope {
	return StatsEnvelope{
		Success: true,
		Data: StatsResponse{
			TotalTodos:          s.TotalTodos,
			CompletedTodos:      s.CompletedTodos,
			PendingTodos:        s.PendingTodos,
			HighPriorityTodos:   s.HighPriorityTodos,
			MediumPriorityTodos: s.MediumPriorityTodos,
			LowPriorityTodos:    s.LowPriorityTodos,
		},
	}
}

// DeleteEnvelope is the body for a successful delete, which carries no data.
type DeleteEnvelope struct {
	Success bool `json:"success"`
}
