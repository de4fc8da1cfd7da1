package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/taskfolio/todo-service/internal/adapters/http/dto"
	"github.com/taskfolio/todo-service/internal/domain/todo"
	"github.com/taskfolio/todo-service/internal/platform/httpclient"
	"github.com/taskfolio/todo-service/internal/ports"
)

// headerUserID carries the acting owner's identity on every request.
const headerUserID = "X-User-ID"

// Compile-time interface check.
var _ TodoAPI = (*API)(nil)

// TodoAPI is the remote surface [State] depends on. Implemented by [API];
// test doubles substitute it in state tests.
type TodoAPI interface {
	ListTodos(ctx context.Context, query todo.ListQuery) (*ports.TodoPage, error)
	GetTodo(ctx context.Context, id string) (*todo.Todo, error)
	CreateTodo(ctx context.Context, t *todo.Todo) (*todo.Todo, error)
	UpdateTodo(ctx context.Context, id string, t *todo.Todo) (*todo.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	CompleteTodo(ctx context.Context, id string) (*todo.Todo, error)
	ReopenTodo(ctx context.Context, id string) (*todo.Todo, error)
	TodoStats(ctx context.Context) (*todo.Stats, error)
}

// API is a typed client for the todo service's HTTP surface. Every call is
// made on behalf of one owner, identified by the X-User-ID header. The
// underlying [httpclient.Client] provides circuit breaking, rate limiting,
// retry with exponential backoff, and OpenTelemetry tracing for every
// outbound call.
type API struct {
	client *httpclient.Client
	userID string
	logger *slog.Logger
}

// NewAPI creates an API bound to one owner identity. The client's BaseURL
// should point to the service root (e.g. "http://localhost:8080").
func NewAPI(client *httpclient.Client, userID string, logger *slog.Logger) *API {
	return &API{client: client, userID: userID, logger: logger}
}

// ListTodos fetches a page of todos from GET /api/todos with the query's
// filter, sort, and pagination parameters encoded as query string values.
func (a *API) ListTodos(ctx context.Context, query todo.ListQuery) (*ports.TodoPage, error) {
	path := "/api/todos" + listQueryString(query)

	var env dto.TodoListEnvelope
	if err := a.get(ctx, path, &env); err != nil {
		return nil, err
	}

	todos := make([]todo.Todo, len(env.Data))
	for i := range env.Data {
		t, err := fromTodoResponse(&env.Data[i])
		if err != nil {
			return nil, err
		}
		todos[i] = *t
	}
	return &ports.TodoPage{
		Todos:       todos,
		CurrentPage: env.CurrentPage,
		TotalPages:  env.TotalPages,
		TotalCount:  env.TotalCount,
	}, nil
}

// GetTodo fetches a single todo from GET /api/todos/{id}.
// Returns domain.ErrNotFound if the todo is absent or owned by another user.
func (a *API) GetTodo(ctx context.Context, id string) (*todo.Todo, error) {
	var env dto.TodoEnvelope
	if err := a.get(ctx, "/api/todos/"+url.PathEscape(id), &env); err != nil {
		return nil, err
	}
	return fromTodoResponse(&env.Data)
}

// CreateTodo sends POST /api/todos and returns the created todo with
// server-assigned fields. Returns domain.ErrValidation on rejection.
func (a *API) CreateTodo(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	var env dto.TodoEnvelope
	if err := a.withBody(ctx, http.MethodPost, "/api/todos", http.StatusCreated, toTodoRequest(t), &env); err != nil {
		return nil, err
	}
	return fromTodoResponse(&env.Data)
}

// UpdateTodo sends PUT /api/todos/{id}, replacing the todo's mutable fields,
// and returns the updated entity.
func (a *API) UpdateTodo(ctx context.Context, id string, t *todo.Todo) (*todo.Todo, error) {
	path := "/api/todos/" + url.PathEscape(id)

	var env dto.TodoEnvelope
	if err := a.withBody(ctx, http.MethodPut, path, http.StatusOK, toTodoRequest(t), &env); err != nil {
		return nil, err
	}
	return fromTodoResponse(&env.Data)
}

// DeleteTodo sends DELETE /api/todos/{id}.
// Returns domain.ErrNotFound if the todo is absent or owned by another user.
func (a *API) DeleteTodo(ctx context.Context, id string) error {
	path := "/api/todos/" + url.PathEscape(id)

	var env dto.DeleteEnvelope
	return a.do(ctx, http.MethodDelete, path, http.StatusOK, nil, &env)
}

// CompleteTodo sends PATCH /api/todos/{id}/complete and returns the todo in
// its completed state.
func (a *API) CompleteTodo(ctx context.Context, id string) (*todo.Todo, error) {
	return a.patchStatus(ctx, id, "complete")
}

// ReopenTodo sends PATCH /api/todos/{id}/pending and returns the todo in its
// pending state.
func (a *API) ReopenTodo(ctx context.Context, id string) (*todo.Todo, error) {
	return a.patchStatus(ctx, id, "pending")
}

// TodoStats fetches the owner's aggregate counts from GET /api/todos/stats.
func (a *API) TodoStats(ctx context.Context) (*todo.Stats, error) {
	var env dto.StatsEnvelope
	if err := a.get(ctx, "/api/todos/stats", &env); err != nil {
		return nil, err
	}
	return &todo.Stats{
		TotalTodos:          env.Data.TotalTodos,
		CompletedTodos:      env.Data.CompletedTodos,
		PendingTodos:        env.Data.PendingTodos,
		HighPriorityTodos:   env.Data.HighPriorityTodos,
		MediumPriorityTodos: env.Data.MediumPriorityTodos,
		LowPriorityTodos:    env.Data.LowPriorityTodos,
	}, nil
}

// BaseURL returns the base URL from the underlying HTTP client.
func (a *API) BaseURL() string {
	return a.client.BaseURL()
}

// CircuitBreakerState returns the circuit breaker state from the underlying
// HTTP client.
func (a *API) CircuitBreakerState() string {
	return a.client.CircuitBreakerState()
}

func (a *API) patchStatus(ctx context.Context, id, action string) (*todo.Todo, error) {
	path := "/api/todos/" + url.PathEscape(id) + "/" + action

	var env dto.TodoEnvelope
	if err := a.do(ctx, http.MethodPatch, path, http.StatusOK, nil, &env); err != nil {
		return nil, err
	}
	return fromTodoResponse(&env.Data)
}

func (a *API) get(ctx context.Context, path string, respBody any) error {
	return a.do(ctx, http.MethodGet, path, http.StatusOK, nil, respBody)
}

func (a *API) withBody(ctx context.Context, method, path string, wantStatus int, reqBody, respBody any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling %s body for %s: %w", method, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.client.BaseURL()+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request for %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return a.execute(req, wantStatus, respBody)
}

// do builds a bodyless request and executes it. Methods with a JSON body go
// through withBody instead.
func (a *API) do(ctx context.Context, method, path string, wantStatus int, reqBody, respBody any) error {
	if reqBody != nil {
		return a.withBody(ctx, method, path, wantStatus, reqBody, respBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.client.BaseURL()+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating %s request for %s: %w", method, path, err)
	}
	return a.execute(req, wantStatus, respBody)
}

// execute sends the request, checks the status code, and optionally decodes
// the response body. It ensures resp.Body is always closed.
func (a *API) execute(req *http.Request, wantStatus int, respBody any) error {
	req.Header.Set(headerUserID, a.userID)

	resp, err := a.client.Do(req.Context(), req)
	if err != nil {
		// httpclient.Do can return both resp and err when retries are
		// exhausted on a retryable status (e.g. 5xx). Translate the HTTP
		// response into a domain error rather than returning the raw
		// retry error.
		if resp != nil {
			defer a.closeBody(req.Context(), resp)
			if resp.StatusCode != wantStatus {
				return translateHTTPError(resp)
			}
		}
		a.logger.ErrorContext(req.Context(), "request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer a.closeBody(req.Context(), resp)

	if resp.StatusCode != wantStatus {
		translateErr := translateHTTPError(resp)
		a.logger.ErrorContext(req.Context(), "unexpected status",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
			slog.Int("want_status", wantStatus),
		)
		return translateErr
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return fmt.Errorf("decoding response from %s %s: %w", req.Method, req.URL.Path, err)
		}
	}
	return nil
}

// closeBody closes an HTTP response body and logs on failure.
func (a *API) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		a.logger.WarnContext(ctx, "failed to close response body",
			slog.String("error", err.Error()),
		)
	}
}

// wireSortKeys maps domain sort keys to their camelCase query-string form.
var wireSortKeys = map[todo.SortKey]string{
	todo.SortCreatedAt: "createdAt",
	todo.SortDueDate:   "dueDate",
	todo.SortPriority:  "priority",
	todo.SortTitle:     "title",
}

// listQueryString encodes a ListQuery as a URL query string (including the
// leading "?"). Zero-value filters are omitted; pagination and sort are
// always sent explicitly.
func listQueryString(q todo.ListQuery) string {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status.String())
	}
	if q.Priority != "" {
		v.Set("priority", q.Priority.String())
	}
	if key, ok := wireSortKeys[q.SortBy]; ok {
		v.Set("sortBy", key)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", string(q.SortOrder))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// toTodoRequest converts a domain Todo to the JSON request body shared by
// create and update.
func toTodoRequest(t *todo.Todo) dto.TodoRequest {
	req := dto.TodoRequest{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		Priority:    t.Priority.String(),
	}
	if t.DueDate != nil {
		req.DueDate = t.DueDate.Format(time.RFC3339)
	}
	return req
}

// fromTodoResponse converts a wire todo back into the domain entity.
func fromTodoResponse(r *dto.TodoResponse) (*todo.Todo, error) {
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing createdAt for todo %s: %w", r.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updatedAt for todo %s: %w", r.ID, err)
	}

	t := &todo.Todo{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Status:      todo.Status(r.Status),
		Priority:    todo.Priority(r.Priority),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if r.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *r.DueDate)
		if err != nil {
			return nil, fmt.Errorf("parsing dueDate for todo %s: %w", r.ID, err)
		}
		t.DueDate = &due
	}
	return t, nil
}
