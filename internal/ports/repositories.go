package ports

import (
	"context"

	"github.com/taskfolio/todo-service/internal/domain/todo"
)

// TodoRepository defines the repository port for persisted todo records.
// Implemented by the storage adapter; called by the application layer.
//
// Every method is scoped to an owner: reads never observe and writes never
// affect todos belonging to a different owner. A write against a todo owned
// by someone else fails with domain.ErrNotFound, exactly as if the todo did
// not exist.
type TodoRepository interface {
	// List returns the requested page of todos matching the query's filters,
	// together with the total count over the filtered-but-unpaginated set.
	// The query must already be normalized; List applies owner scoping,
	// equality filters, sorting with deterministic tie-breaks, then
	// pagination.
	List(ctx context.Context, ownerID string, query todo.ListQuery) ([]todo.Todo, int64, error)

	// Get returns a single todo by ID.
	// Returns domain.ErrNotFound if absent or owned by another user.
	Get(ctx context.Context, ownerID, id string) (*todo.Todo, error)

	// Create persists a new todo and returns it with server-assigned fields
	// (ID, timestamps) populated.
	Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error)

	// Update replaces the mutable fields of an existing todo and returns the
	// updated entity. Returns domain.ErrNotFound if absent or not owned.
	Update(ctx context.Context, ownerID, id string, t *todo.Todo) (*todo.Todo, error)

	// Delete removes a todo.
	// Returns domain.ErrNotFound if absent or not owned.
	Delete(ctx context.Context, ownerID, id string) error

	// SetStatus sets the todo's status and returns the updated entity.
	// Setting the current status again is a no-op success.
	// Returns domain.ErrNotFound if absent or not owned.
	SetStatus(ctx context.Context, ownerID, id string, status todo.Status) (*todo.Todo, error)

	// Stats computes the aggregate counts for one owner's todos.
	// Counts are recomputed on every call, never cached.
	Stats(ctx context.Context, ownerID string) (*todo.Stats, error)
}
