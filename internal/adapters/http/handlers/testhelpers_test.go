package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskfolio/todo-service/internal/adapters/http/middleware"
	"github.com/taskfolio/todo-service/internal/domain/todo"
	"github.com/taskfolio/todo-service/internal/ports"
)

const testOwner = "user-1"

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

// asOwner attaches the authenticated owner identity the way the
// OwnerIdentity middleware would.
func asOwner(r *http.Request, ownerID string) *http.Request {
	return r.WithContext(middleware.WithOwner(r.Context(), ownerID))
}

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func validTodo() todo.Todo {
	return todo.Todo{
		ID:          "todo-1",
		OwnerID:     testOwner,
		Title:       "Buy groceries",
		Description: "Milk, eggs, bread",
		Status:      todo.StatusPending,
		Priority:    todo.PriorityMedium,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

// fakeService implements ports.TodoService with overridable function fields.
// Unset methods fail the test if called.
type fakeService struct {
	t        *testing.T
	list     func(ctx context.Context, ownerID string, q todo.ListQuery) (*ports.TodoPage, error)
	get      func(ctx context.Context, ownerID, id string) (*todo.Todo, error)
	create   func(ctx context.Context, ownerID string, td *todo.Todo) (*todo.Todo, error)
	update   func(ctx context.Context, ownerID, id string, td *todo.Todo) (*todo.Todo, error)
	deleteFn func(ctx context.Context, ownerID, id string) error
	complete func(ctx context.Context, ownerID, id string) (*todo.Todo, error)
	reopen   func(ctx context.Context, ownerID, id string) (*todo.Todo, error)
	stats    func(ctx context.Context, ownerID string) (*todo.Stats, error)
}

func (f *fakeService) ListTodos(ctx context.Context, ownerID string, q todo.ListQuery) (*ports.TodoPage, error) {
	if f.list == nil {
		f.t.Fatal("unexpected call to ListTodos")
	}
	return f.list(ctx, ownerID, q)
}

func (f *fakeService) GetTodo(ctx context.Context, ownerID, id string) (*todo.Todo, error) {
	if f.get == nil {
		f.t.Fatal("unexpected call to GetTodo")
	}
	return f.get(ctx, ownerID, id)
}

func (f *fakeService) CreateTodo(ctx context.Context, ownerID string, td *todo.Todo) (*todo.Todo, error) {
	if f.create == nil {
		f.t.Fatal("unexpected call to CreateTodo")
	}
	return f.create(ctx, ownerID, td)
}

func (f *fakeService) UpdateTodo(ctx context.Context, ownerID, id string, td *todo.Todo) (*todo.Todo, error) {
	if f.update == nil {
		f.t.Fatal("unexpected call to UpdateTodo")
	}
	return f.update(ctx, ownerID, id, td)
}

func (f *fakeService) DeleteTodo(ctx context.Context, ownerID, id string) error {
	if f.deleteFn == nil {
		f.t.Fatal("unexpected call to DeleteTodo")
	}
	return f.deleteFn(ctx, ownerID, id)
}

func (f *fakeService) CompleteTodo(ctx context.Context, ownerID, id string) (*todo.Todo, error) {
	if f.complete == nil {
		f.t.Fatal("unexpected call to CompleteTodo")
	}
	return f.complete(ctx, ownerID, id)
}

func (f *fakeService) ReopenTodo(ctx context.Context, ownerID, id string) (*todo.Todo, error) {
	if f.reopen == nil {
		f.t.Fatal("unexpected call to ReopenTodo")
	}
	return f.reopen(ctx, ownerID, id)
}

func (f *fakeService) TodoStats(ctx context.Context, ownerID string) (*todo.Stats, error) {
	if f.stats == nil {
		f.t.Fatal("unexpected call to TodoStats")
	}
	return f.stats(ctx, ownerID)
}
