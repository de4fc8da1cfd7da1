package todo

import "github.com/taskfolio/todo-service/internal/domain"

// Sort keys accepted by ListQuery. Anything else falls back to SortCreatedAt.
type SortKey string

const (
	SortCreatedAt SortKey = "created_at"
	SortDueDate   SortKey = "due_date"
	SortPriority  SortKey = "priority"
	SortTitle     SortKey = "title"
)

// IsValid returns true if the sort key is one of the defined constants.
func (k SortKey) IsValid() bool {
	switch k {
	case SortCreatedAt, SortDueDate, SortPriority, SortTitle:
		return true
	default:
		return false
	}
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// IsValid returns true if the order is one of the defined constants.
func (o SortOrder) IsValid() bool {
	return o == OrderAsc || o == OrderDesc
}

// Pagination defaults and bounds applied by Normalize.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery holds the filter, sort, and pagination parameters for listing
// todos. Zero-value Status and Priority mean "no filter" for that dimension.
// A ListQuery built from untrusted input must pass through Normalize before
// reaching the repository.
type ListQuery struct {
	Status    Status
	Priority  Priority
	SortBy    SortKey
	SortOrder SortOrder
	Page      int
	Limit     int
}

// DefaultListQuery returns the query used when a client supplies no
// parameters: newest first, first page of ten.
func DefaultListQuery() ListQuery {
	return ListQuery{
		SortBy:    SortCreatedAt,
		SortOrder: OrderDesc,
		Page:      DefaultPage,
		Limit:     DefaultLimit,
	}
}

// Normalize clamps pagination values and substitutes defaults for unknown
// sort parameters. Unknown sort keys fall back to created_at and unknown
// orders to desc rather than being rejected; out-of-range page and limit are
// clamped. Filter enum values are NOT fixed up here -- a bad status or
// priority filter is a validation error, handled by Validate.
func (q *ListQuery) Normalize() {
	if !q.SortBy.IsValid() {
		q.SortBy = SortCreatedAt
	}
	if !q.SortOrder.IsValid() {
		q.SortOrder = OrderDesc
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
}

// Validate checks the filter enums against their closed sets. Empty values
// are allowed (no filter). Returns a *domain.ValidationError on violation.
func (q *ListQuery) Validate() error {
	fields := make(map[string]string)

	if q.Status != "" && !q.Status.IsValid() {
		fields["status"] = invalidMsg(string(q.Status))
	}
	if q.Priority != "" && !q.Priority.IsValid() {
		fields["priority"] = invalidMsg(string(q.Priority))
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Offset returns the number of records to skip for the current page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
