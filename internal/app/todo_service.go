// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"log/slog"

	"github.com/taskfolio/todo-service/internal/domain/todo"
	"github.com/taskfolio/todo-service/internal/ports"
)

// Compile-time check that TodoService implements ports.TodoService.
var _ ports.TodoService = (*TodoService)(nil)

// TodoService implements ports.TodoService. It is the trust boundary between
// untrusted request parameters and the repository: list queries are clamped
// and validated here, free-text fields are trimmed before validation, and
// every operation is scoped to the calling owner. It contains no storage
// logic of its own.
type TodoService struct {
	repo   ports.TodoRepository
	logger *slog.Logger
}

// NewTodoService creates a TodoService backed by the given repository.
// The logger is used for structured request/error logging.
func NewTodoService(repo ports.TodoRepository, logger *slog.Logger) *TodoService {
	return &TodoService{
		repo:   repo,
		logger: logger,
	}
}

// ListTodos normalizes and validates the query, then returns the requested
// page of the owner's todos with pagination metadata.
//
// Unknown sort keys and orders fall back to their defaults, and page/limit
// are clamped into range, so a hostile query string can degrade at worst to
// the default listing. Unknown status or priority filter values are rejected
// with domain.ErrValidation: silently dropping a filter would return rows the
// caller asked to exclude.
func (s *TodoService) ListTodos(ctx context.Context, ownerID string, query todo.ListQuery) (*ports.TodoPage, error) {
	query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "listing todos",
		slog.String("owner_id", ownerID),
		slog.Int("page", query.Page),
		slog.Int("limit", query.Limit),
	)

	todos, total, err := s.repo.List(ctx, ownerID, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list todos",
			slog.String("operation", "ListTodos"),
			slog.String("owner_id", ownerID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return &ports.TodoPage{
		Todos:       todos,
		CurrentPage: query.Page,
		TotalPages:  totalPages(total, query.Limit),
		TotalCount:  total,
	}, nil
}

// GetTodo returns a single todo owned by ownerID.
func (s *TodoService) GetTodo(ctx context.Context, ownerID, id string) (*todo.Todo, error) {
	t, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch todo",
			slog.String("operation", "GetTodo"),
			slog.String("todo_id", id),
			slog.Any("error", err),
		)
		return nil, err
	}
	return t, nil
}

// CreateTodo validates and persists a new todo for ownerID, returning the
// created entity with server-assigned fields (ID, timestamps).
func (s *TodoService) CreateTodo(ctx context.Context, ownerID string, t *todo.Todo) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "creating todo", slog.String("owner_id", ownerID))

	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.OwnerID = ownerID

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create todo",
			slog.String("operation", "CreateTodo"),
			slog.String("owner_id", ownerID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// UpdateTodo validates and replaces the mutable fields of an existing todo.
func (s *TodoService) UpdateTodo(ctx context.Context, ownerID, id string, t *todo.Todo) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "updating todo", slog.String("todo_id", id))

	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, ownerID, id, t)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update todo",
			slog.String("operation", "UpdateTodo"),
			slog.String("todo_id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// DeleteTodo removes a todo owned by ownerID.
func (s *TodoService) DeleteTodo(ctx context.Context, ownerID, id string) error {
	s.logger.InfoContext(ctx, "deleting todo", slog.String("todo_id", id))

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete todo",
			slog.String("operation", "DeleteTodo"),
			slog.String("todo_id", id),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// CompleteTodo marks a todo completed. Completing an already-completed todo
// succeeds without changes.
func (s *TodoService) CompleteTodo(ctx context.Context, ownerID, id string) (*todo.Todo, error) {
	return s.setStatus(ctx, "CompleteTodo", ownerID, id, todo.StatusCompleted)
}

// ReopenTodo marks a todo pending again. Reopening an already-pending todo
// succeeds without changes.
func (s *TodoService) ReopenTodo(ctx context.Context, ownerID, id string) (*todo.Todo, error) {
	return s.setStatus(ctx, "ReopenTodo", ownerID, id, todo.StatusPending)
}

func (s *TodoService) setStatus(ctx context.Context, op, ownerID, id string, status todo.Status) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "setting todo status",
		slog.String("todo_id", id),
		slog.String("status", status.String()),
	)

	updated, err := s.repo.SetStatus(ctx, ownerID, id, status)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to set todo status",
			slog.String("operation", op),
			slog.String("todo_id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// TodoStats returns aggregate counts over all of the owner's todos,
// recomputed on every call.
func (s *TodoService) TodoStats(ctx context.Context, ownerID string) (*todo.Stats, error) {
	stats, err := s.repo.Stats(ctx, ownerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to compute todo stats",
			slog.String("operation", "TodoStats"),
			slog.String("owner_id", ownerID),
			slog.Any("error", err),
		)
		return nil, err
	}
	return stats, nil
}

// totalPages is ceil(total/limit); 0 when the filtered set is empty.
func totalPages(total int64, limit int) int {
	if total == 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
