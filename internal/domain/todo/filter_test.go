package todo

import (
	"errors"
	"testing"

	"github.com/taskfolio/todo-service/internal/domain"
)

func TestListQuery_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   ListQuery
		want ListQuery
	}{
		{
			name: "zero value gets defaults",
			in:   ListQuery{},
			want: DefaultListQuery(),
		},
		{
			name: "unknown sort key falls back to created_at",
			in:   ListQuery{SortBy: "owner_id", SortOrder: OrderAsc, Page: 2, Limit: 5},
			want: ListQuery{SortBy: SortCreatedAt, SortOrder: OrderAsc, Page: 2, Limit: 5},
		},
		{
			name: "unknown sort order falls back to desc",
			in:   ListQuery{SortBy: SortTitle, SortOrder: "sideways", Page: 1, Limit: 10},
			want: ListQuery{SortBy: SortTitle, SortOrder: OrderDesc, Page: 1, Limit: 10},
		},
		{
			name: "page below one clamps to one",
			in:   ListQuery{SortBy: SortCreatedAt, SortOrder: OrderDesc, Page: -3, Limit: 10},
			want: ListQuery{SortBy: SortCreatedAt, SortOrder: OrderDesc, Page: 1, Limit: 10},
		},
		{
			name: "limit above max clamps to max",
			in:   ListQuery{SortBy: SortCreatedAt, SortOrder: OrderDesc, Page: 1, Limit: 9999},
			want: ListQuery{SortBy: SortCreatedAt, SortOrder: OrderDesc, Page: 1, Limit: MaxLimit},
		},
		{
			name: "valid filters survive untouched",
			in:   ListQuery{Status: StatusCompleted, Priority: PriorityHigh, SortBy: SortDueDate, SortOrder: OrderAsc, Page: 3, Limit: 25},
			want: ListQuery{Status: StatusCompleted, Priority: PriorityHigh, SortBy: SortDueDate, SortOrder: OrderAsc, Page: 3, Limit: 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := tt.in
			q.Normalize()
			if q != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", q, tt.want)
			}
		})
	}
}

func TestListQuery_Validate(t *testing.T) {
	t.Parallel()

	t.Run("empty filters are valid", func(t *testing.T) {
		t.Parallel()
		q := DefaultListQuery()
		if err := q.Validate(); err != nil {
			t.Fatalf("Validate() = %v, want nil", err)
		}
	})

	t.Run("unknown status filter is rejected", func(t *testing.T) {
		t.Parallel()
		q := ListQuery{Status: "done"}
		if err := q.Validate(); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Validate() = %v, want ErrValidation", err)
		}
	})

	t.Run("unknown priority filter is rejected", func(t *testing.T) {
		t.Parallel()
		q := ListQuery{Priority: "critical"}
		if err := q.Validate(); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Validate() = %v, want ErrValidation", err)
		}
	})
}

func TestListQuery_Offset(t *testing.T) {
	t.Parallel()

	q := ListQuery{Page: 3, Limit: 10}
	if got := q.Offset(); got != 20 {
		t.Errorf("Offset() = %d, want 20", got)
	}
}
