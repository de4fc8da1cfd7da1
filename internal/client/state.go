package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taskfolio/todo-service/internal/domain/todo"
	"github.com/taskfolio/todo-service/internal/platform/fanout"
	"github.com/taskfolio/todo-service/internal/ports"
)

// Snapshot is a point-in-time copy of the state. Callers receive copies, so
// a snapshot never changes under the reader while refreshes proceed.
type Snapshot struct {
	Todos       []todo.Todo
	Query       todo.ListQuery
	CurrentPage int
	TotalPages  int
	TotalCount  int64

	// Stats is nil until the first successful refresh completes.
	Stats *todo.Stats

	// Busy reports whether a refresh is in flight.
	Busy bool
}

// CompletionRate returns the completed percentage from the stats snapshot,
// or 0 when stats have not loaded yet.
func (s Snapshot) CompletionRate() int {
	if s.Stats == nil {
		return 0
	}
	return s.Stats.CompletionRate()
}

// State holds one owner's view of their todos: the current page under the
// active filters plus the aggregate stats. Every mutation re-fetches both,
// concurrently, so the list and the counters can never drift apart.
//
// Refreshes are tagged with a generation number taken under the lock. When
// two refreshes overlap (e.g. a filter change racing a completion toggle),
// only the latest generation's results are applied; earlier in-flight
// responses are discarded instead of overwriting newer data.
type State struct {
	api    TodoAPI
	logger *slog.Logger

	mu         sync.Mutex
	generation uint64
	inflight   int

	todos       []todo.Todo
	query       todo.ListQuery
	currentPage int
	totalPages  int
	totalCount  int64
	stats       *todo.Stats
}

// NewState creates a State over the given API with the default query
// (newest first, first page of ten). Call Refresh to perform the initial
// load.
func NewState(api TodoAPI, logger *slog.Logger) *State {
	return &State{
		api:    api,
		logger: logger,
		query:  todo.DefaultListQuery(),
	}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos := make([]todo.Todo, len(s.todos))
	copy(todos, s.todos)

	snap := Snapshot{
		Todos:       todos,
		Query:       s.query,
		CurrentPage: s.currentPage,
		TotalPages:  s.totalPages,
		TotalCount:  s.totalCount,
		Busy:        s.inflight > 0,
	}
	if s.stats != nil {
		stats := *s.stats
		snap.Stats = &stats
	}
	return snap
}

// Refresh re-fetches the todo page and the stats concurrently and applies
// both, unless a newer refresh started in the meantime.
func (s *State) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	query := s.query
	s.inflight++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	var (
		page  *ports.TodoPage
		stats *todo.Stats
	)
	err := fanout.Join(ctx,
		func(ctx context.Context) error {
			p, err := s.api.ListTodos(ctx, query)
			if err != nil {
				return err
			}
			page = p
			return nil
		},
		func(ctx context.Context) error {
			st, err := s.api.TodoStats(ctx)
			if err != nil {
				return err
			}
			stats = st
			return nil
		},
	)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.DebugContext(ctx, "discarding stale refresh",
			slog.Uint64("generation", gen),
			slog.Uint64("latest", s.generation),
		)
		return nil
	}

	s.todos = page.Todos
	s.currentPage = page.CurrentPage
	s.totalPages = page.TotalPages
	s.totalCount = page.TotalCount
	s.stats = stats
	return nil
}

// UpdateQuery merges the given mutation into the active query, resets to the
// first page, and refreshes. Changing filters or sort always restarts
// pagination so the new result set is viewed from the top.
func (s *State) UpdateQuery(ctx context.Context, mutate func(q *todo.ListQuery)) error {
	s.mu.Lock()
	mutate(&s.query)
	s.query.Page = todo.DefaultPage
	s.query.Normalize()
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// ResetQuery restores the default query and refreshes.
func (s *State) ResetQuery(ctx context.Context) error {
	s.mu.Lock()
	s.query = todo.DefaultListQuery()
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// SetPage moves to the given page (clamped to at least 1) and refreshes.
func (s *State) SetPage(ctx context.Context, page int) error {
	s.mu.Lock()
	s.query.Page = page
	s.query.Normalize()
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// Create persists a new todo, then refreshes the list and stats.
func (s *State) Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	created, err := s.api.CreateTodo(ctx, t)
	if err != nil {
		return nil, err
	}
	return created, s.Refresh(ctx)
}

// Update replaces a todo's mutable fields, then refreshes.
func (s *State) Update(ctx context.Context, id string, t *todo.Todo) (*todo.Todo, error) {
	updated, err := s.api.UpdateTodo(ctx, id, t)
	if err != nil {
		return nil, err
	}
	return updated, s.Refresh(ctx)
}

// Delete removes a todo, then refreshes.
func (s *State) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteTodo(ctx, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Complete marks a todo completed, then refreshes.
func (s *State) Complete(ctx context.Context, id string) (*todo.Todo, error) {
	completed, err := s.api.CompleteTodo(ctx, id)
	if err != nil {
		return nil, err
	}
	return completed, s.Refresh(ctx)
}

// Reopen marks a todo pending again, then refreshes.
func (s *State) Reopen(ctx context.Context, id string) (*todo.Todo, error) {
	reopened, err := s.api.ReopenTodo(ctx, id)
	if err != nil {
		return nil, err
	}
	return reopened, s.Refresh(ctx)
}
