package ports

import (
	"context"

	"github.com/taskfolio/todo-service/internal/domain/todo"
)

// TodoPage is a page of todos together with the pagination metadata the
// HTTP envelope carries. TotalPages is ceil(TotalCount/limit), 0 when the
// filtered set is empty.
type TodoPage struct {
	Todos       []todo.Todo
	CurrentPage int
	TotalPages  int
	TotalCount  int64
}

// TodoService defines the service port between untrusted requests and the
// repository. Implemented by the application layer; called by inbound
// adapters (handlers).
//
// The service clamps and validates incoming query parameters, trims free-text
// fields before validation, and maps every repository failure to one of the
// domain sentinel errors before returning.
type TodoService interface {
	// ListTodos normalizes and validates the query, executes it scoped to
	// the owner, and returns the page plus pagination metadata. Pages beyond
	// the last are empty, not an error.
	ListTodos(ctx context.Context, ownerID string, query todo.ListQuery) (*TodoPage, error)

	// GetTodo returns a single todo by ID.
	// Returns domain.ErrNotFound if absent or not owned.
	GetTodo(ctx context.Context, ownerID, id string) (*todo.Todo, error)

	// CreateTodo validates and persists a new todo, returning the created
	// entity with server-assigned fields.
	// Returns domain.ErrValidation if the todo fails validation.
	CreateTodo(ctx context.Context, ownerID string, t *todo.Todo) (*todo.Todo, error)

	// UpdateTodo validates and replaces an existing todo's mutable fields.
	// Returns domain.ErrNotFound if absent or not owned,
	// domain.ErrValidation on bad input.
	UpdateTodo(ctx context.Context, ownerID, id string, t *todo.Todo) (*todo.Todo, error)

	// DeleteTodo removes a todo.
	// Returns domain.ErrNotFound if absent or not owned.
	DeleteTodo(ctx context.Context, ownerID, id string) error

	// CompleteTodo marks a todo completed. Completing an already-completed
	// todo is a no-op success.
	CompleteTodo(ctx context.Context, ownerID, id string) (*todo.Todo, error)

	// ReopenTodo marks a todo pending again. Reopening an already-pending
	// todo is a no-op success.
	ReopenTodo(ctx context.Context, ownerID, id string) (*todo.Todo, error)

	// TodoStats returns the aggregate counts for the owner's todos.
	TodoStats(ctx context.Context, ownerID string) (*todo.Stats, error)
}
