package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskfolio/todo-service/internal/adapters/http/dto"
	"github.com/taskfolio/todo-service/internal/domain"
)

const headerUserID = "X-User-ID"

// ownerIDKey is the context key for the authenticated owner identity.
type ownerIDKey struct{}

// OwnerFromContext extracts the authenticated owner ID from the context.
// Returns an empty string when the request did not pass through OwnerIdentity.
func OwnerFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ownerIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithOwner returns a new context carrying the owner ID. Exported for
// handler tests that bypass the middleware chain.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey{}, ownerID)
}

// OwnerIdentity returns middleware that enforces the owner boundary for the
// todo API. The upstream authentication layer verifies credentials and
// attaches the caller's identity as the X-User-ID header; this middleware
// rejects requests without one and makes the identity available to handlers
// through the context. Every repository query is later scoped to this value,
// so no handler can observe another user's todos.
func OwnerIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID := strings.TrimSpace(r.Header.Get(headerUserID))
			if ownerID == "" {
				dto.WriteErrorResponse(w, r, domain.ErrUnauthorized)
				return
			}

			ctx := WithOwner(r.Context(), ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
