package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskfolio/todo-service/internal/adapters/http/dto"
	"github.com/taskfolio/todo-service/internal/adapters/http/middleware"
	"github.com/taskfolio/todo-service/internal/domain"
	"github.com/taskfolio/todo-service/internal/domain/todo"
)

// todoID extracts the {id} path parameter from the chi URL params.
func todoID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// owner extracts the authenticated owner ID placed in the context by the
// OwnerIdentity middleware. The middleware rejects requests without one, so
// an empty value here means the route was wired without the auth boundary.
func owner(r *http.Request) (string, error) {
	id := middleware.OwnerFromContext(r.Context())
	if id == "" {
		return "", domain.ErrUnauthorized
	}
	return id, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to maxJSONBodyBytes to prevent resource exhaustion. On failure,
// it writes a 400 error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"body": "invalid JSON"},
		})
		return false
	}
	return true
}

// decodeTodoBody decodes a TodoRequest body and converts it to a domain
// Todo. Returns nil and writes an error response on failure; business
// validation happens in the service.
func decodeTodoBody(w http.ResponseWriter, r *http.Request) *todo.Todo {
	var req dto.TodoRequest
	if !decodeJSONBody(w, r, &req) {
		return nil
	}

	t, err := req.ToDomain()
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return nil
	}
	return t
}
