package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/taskfolio/todo-service/internal/domain"
	"github.com/taskfolio/todo-service/internal/domain/todo"
)

// Accepted layouts for the dueDate field. Date-pickers send bare dates,
// API clients tend to send full RFC 3339 timestamps.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

// TodoRequest represents the JSON body for creating or updating a todo.
// Update is a full replacement of the mutable fields, so the two operations
// share one shape. An empty dueDate string means "no due date".
type TodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

// ToDomain converts the request body to a domain Todo. Field trimming,
// defaulting, and business validation happen in the service; only the
// dueDate parse is handled here because the wire format is not the domain's
// concern. Returns a *domain.ValidationError for an unparseable dueDate.
func (r *TodoRequest) ToDomain() (*todo.Todo, error) {
	t := &todo.Todo{
		Title:       r.Title,
		Description: r.Description,
		Status:      todo.Status(r.Status),
		Priority:    todo.Priority(r.Priority),
	}

	if r.DueDate != "" {
		due, err := parseDueDate(r.DueDate)
		if err != nil {
			return nil, &domain.ValidationError{Fields: map[string]string{
				"dueDate": fmt.Sprintf("invalid date: %q", r.DueDate),
			}}
		}
		t.DueDate = &due
	}

	return t, nil
}

func parseDueDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Wire values for sortBy, mapped to domain sort keys. The wire uses the
// camelCase names clients already send; unknown values pass through so the
// domain's normalization can apply its fallback.
var sortKeyByWire = map[string]todo.SortKey{
	"createdAt": todo.SortCreatedAt,
	"dueDate":   todo.SortDueDate,
	"priority":  todo.SortPriority,
	"title":     todo.SortTitle,
}

// ParseListQuery builds a domain ListQuery from untrusted URL query
// parameters. Non-numeric or missing page/limit values are left as zero so
// the domain's Normalize clamps them to defaults; unknown enum filter values
// are passed through for Validate to reject.
func ParseListQuery(values url.Values) todo.ListQuery {
	query := todo.ListQuery{
		Status:   todo.Status(values.Get("status")),
		Priority: todo.Priority(values.Get("priority")),
	}

	if raw := values.Get("sortBy"); raw != "" {
		if key, ok := sortKeyByWire[raw]; ok {
			query.SortBy = key
		} else {
			query.SortBy = todo.SortKey(raw)
		}
	}
	query.SortOrder = todo.SortOrder(values.Get("sortOrder"))

	if page, err := strconv.Atoi(values.Get("page")); err == nil {
		query.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil {
		query.Limit = limit
	}

	query.Normalize()
	return query
}
