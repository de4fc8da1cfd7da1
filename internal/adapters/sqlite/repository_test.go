package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskfolio/todo-service/internal/domain"
	"github.com/taskfolio/todo-service/internal/domain/todo"
	"github.com/taskfolio/todo-service/internal/platform/config"
	"github.com/taskfolio/todo-service/internal/platform/database"
)

// newTestRepo opens an in-memory database and migrates the schema.
// A single connection keeps all queries on the same in-memory instance.
func newTestRepo(t *testing.T) *TodoRepository {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		BusyTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewTodoRepository(db)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}
	return repo
}

// mustCreate inserts a todo and returns the created entity.
func mustCreate(t *testing.T, repo *TodoRepository, td todo.Todo) todo.Todo {
	t.Helper()
	created, err := repo.Create(context.Background(), &td)
	if err != nil {
		t.Fatalf("creating todo %q: %v", td.Title, err)
	}
	return *created
}

func pendingTodo(owner, title string) todo.Todo {
	return todo.Todo{
		OwnerID:  owner,
		Title:    title,
		Status:   todo.StatusPending,
		Priority: todo.PriorityMedium,
	}
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	due := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	input := todo.Todo{
		OwnerID:     "user-1",
		Title:       "Buy groceries",
		Description: "Milk, eggs, bread",
		Status:      todo.StatusPending,
		Priority:    todo.PriorityHigh,
		DueDate:     &due,
	}

	created, err := repo.Create(ctx, &input)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("Create() did not assign timestamps")
	}

	got, err := repo.Get(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Buy groceries" {
		t.Errorf("Title = %q, want %q", got.Title, "Buy groceries")
	}
	if got.Priority != todo.PriorityHigh {
		t.Errorf("Priority = %q, want %q", got.Priority, todo.PriorityHigh)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, due)
	}
}

func TestGet_OwnerScoping(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, pendingTodo("user-1", "Private task"))

	// Another user's ID lookup behaves exactly like a missing row.
	if _, err := repo.Get(ctx, "user-2", created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() as other owner error = %v, want ErrNotFound", err)
	}
	if _, err := repo.Get(ctx, "user-1", "no-such-id"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() missing id error = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, pendingTodo("user-1", "Old title"))

	patch := created
	patch.Title = "New title"
	patch.Priority = todo.PriorityLow

	updated, err := repo.Update(ctx, "user-1", created.ID, &patch)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "New title" {
		t.Errorf("Title = %q, want %q", updated.Title, "New title")
	}
	if updated.Priority != todo.PriorityLow {
		t.Errorf("Priority = %q, want %q", updated.Priority, todo.PriorityLow)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Errorf("CreatedAt changed on update: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}

	// Writes against foreign rows report not found.
	if _, err := repo.Update(ctx, "user-2", created.ID, &patch); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update() as other owner error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, pendingTodo("user-1", "Doomed"))

	if err := repo.Delete(ctx, "user-2", created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete() as other owner error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, "user-1", created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "user-1", created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

func TestSetStatus(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, pendingTodo("user-1", "Task"))

	completed, err := repo.SetStatus(ctx, "user-1", created.ID, todo.StatusCompleted)
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if completed.Status != todo.StatusCompleted {
		t.Errorf("Status = %q, want %q", completed.Status, todo.StatusCompleted)
	}

	// Setting the same status again is still a success.
	again, err := repo.SetStatus(ctx, "user-1", created.ID, todo.StatusCompleted)
	if err != nil {
		t.Fatalf("SetStatus() repeat error = %v", err)
	}
	if again.Status != todo.StatusCompleted {
		t.Errorf("Status = %q, want %q", again.Status, todo.StatusCompleted)
	}

	if _, err := repo.SetStatus(ctx, "user-2", created.ID, todo.StatusPending); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SetStatus() as other owner error = %v, want ErrNotFound", err)
	}
}

func TestList_FiltersAndPagination(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		td := pendingTodo("user-1", "Pending task")
		mustCreate(t, repo, td)
	}
	done := pendingTodo("user-1", "Done task")
	done.Status = todo.StatusCompleted
	mustCreate(t, repo, done)
	mustCreate(t, repo, pendingTodo("user-2", "Foreign task"))

	t.Run("owner scoping", func(t *testing.T) {
		query := todo.DefaultListQuery()
		todos, total, err := repo.List(ctx, "user-1", query)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 4 {
			t.Errorf("total = %d, want 4", total)
		}
		for _, td := range todos {
			if td.OwnerID != "user-1" {
				t.Errorf("List() leaked todo owned by %q", td.OwnerID)
			}
		}
	})

	t.Run("status filter", func(t *testing.T) {
		query := todo.DefaultListQuery()
		query.Status = todo.StatusCompleted
		todos, total, err := repo.List(ctx, "user-1", query)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 1 {
			t.Errorf("total = %d, want 1", total)
		}
		if len(todos) != 1 || todos[0].Status != todo.StatusCompleted {
			t.Errorf("List() = %v, want single completed todo", todos)
		}
	})

	t.Run("pagination with total over full filtered set", func(t *testing.T) {
		query := todo.DefaultListQuery()
		query.Limit = 3
		query.Page = 2
		todos, total, err := repo.List(ctx, "user-1", query)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 4 {
			t.Errorf("total = %d, want 4 (count ignores pagination)", total)
		}
		if len(todos) != 1 {
			t.Errorf("page 2 len = %d, want 1", len(todos))
		}
	})

	t.Run("page past the end is empty not an error", func(t *testing.T) {
		query := todo.DefaultListQuery()
		query.Page = 99
		todos, total, err := repo.List(ctx, "user-1", query)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(todos) != 0 {
			t.Errorf("len = %d, want 0", len(todos))
		}
		if total != 4 {
			t.Errorf("total = %d, want 4", total)
		}
	})
}

func TestList_Sorting(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	mk := func(title string, prio todo.Priority, due *time.Time) todo.Todo {
		td := pendingTodo("user-1", title)
		td.Priority = prio
		td.DueDate = due
		return td
	}
	date := func(day int) *time.Time {
		d := time.Date(2025, 7, day, 0, 0, 0, 0, time.UTC)
		return &d
	}

	mustCreate(t, repo, mk("banana", todo.PriorityLow, date(3)))
	mustCreate(t, repo, mk("Apple", todo.PriorityHigh, nil))
	mustCreate(t, repo, mk("cherry", todo.PriorityMedium, date(1)))

	titles := func(todos []todo.Todo) []string {
		out := make([]string, len(todos))
		for i, td := range todos {
			out[i] = td.Title
		}
		return out
	}
	assertOrder := func(t *testing.T, got, want []string) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}
	}

	t.Run("priority descending ranks high first", func(t *testing.T) {
		query := todo.DefaultListQuery()
		query.SortBy = todo.SortPriority
		query.SortOrder = todo.OrderDesc
		todos, _, err := repo.List(ctx, "user-1", query)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		assertOrder(t, titles(todos), []string{"Apple", "cherry", "banana"})
	})

	t.Run("title ascending is case-insensitive", func(t *testing.T) {
		query := todo.DefaultListQuery()
		query.SortBy = todo.SortTitle
		query.SortOrder = todo.OrderAsc
		todos, _, err := repo.List(ctx, "user-1", query)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		assertOrder(t, titles(todos), []string{"Apple", "banana", "cherry"})
	})

	t.Run("due date ascending puts missing dates last", func(t *testing.T) {
		query := todo.DefaultListQuery()
		query.SortBy = todo.SortDueDate
		query.SortOrder = todo.OrderAsc
		todos, _, err := repo.List(ctx, "user-1", query)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		assertOrder(t, titles(todos), []string{"cherry", "banana", "Apple"})
	})
}

func TestStats(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("empty owner has zero counts", func(t *testing.T) {
		stats, err := repo.Stats(ctx, "nobody")
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}
		if stats.TotalTodos != 0 {
			t.Errorf("TotalTodos = %d, want 0", stats.TotalTodos)
		}
	})

	mk := func(status todo.Status, prio todo.Priority) todo.Todo {
		td := pendingTodo("user-1", "Task")
		td.Status = status
		td.Priority = prio
		return td
	}
	mustCreate(t, repo, mk(todo.StatusPending, todo.PriorityHigh))
	mustCreate(t, repo, mk(todo.StatusPending, todo.PriorityMedium))
	mustCreate(t, repo, mk(todo.StatusCompleted, todo.PriorityMedium))
	mustCreate(t, repo, mk(todo.StatusCompleted, todo.PriorityLow))
	mustCreate(t, repo, pendingTodo("user-2", "Not counted"))

	stats, err := repo.Stats(ctx, "user-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalTodos != 4 {
		t.Errorf("TotalTodos = %d, want 4", stats.TotalTodos)
	}
	if stats.CompletedTodos != 2 {
		t.Errorf("CompletedTodos = %d, want 2", stats.CompletedTodos)
	}
	if stats.PendingTodos != 2 {
		t.Errorf("PendingTodos = %d, want 2", stats.PendingTodos)
	}
	if stats.HighPriorityTodos != 1 {
		t.Errorf("HighPriorityTodos = %d, want 1", stats.HighPriorityTodos)
	}
	if stats.MediumPriorityTodos != 2 {
		t.Errorf("MediumPriorityTodos = %d, want 2", stats.MediumPriorityTodos)
	}
	if stats.LowPriorityTodos != 1 {
		t.Errorf("LowPriorityTodos = %d, want 1", stats.LowPriorityTodos)
	}
}
