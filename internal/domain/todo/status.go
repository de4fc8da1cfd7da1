// Package todo defines the Todo entity together with its status and priority
// enums, list query parameters, and derived statistics.
package todo

import "fmt"

// Status represents the completion state of a Todo. The state machine has
// exactly two states: complete moves pending to completed, reopen moves
// completed back to pending. Both transitions are externally triggered; there
// is no deadline-based auto-completion.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Priority represents the urgency bucket of a Todo. A todo belongs to exactly
// one bucket at any time.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid returns true if the priority is one of the defined constants.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (p Priority) String() string {
	return string(p)
}

// Rank returns the priority's sort rank (low=0, medium=1, high=2) so that
// priority ordering is by urgency rather than lexicographic.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	default:
		return -1
	}
}

func invalidMsg(got string) string {
	return fmt.Sprintf("invalid: %q", got)
}

func maxLenMsg(limit int) string {
	return fmt.Sprintf("must be at most %d characters", limit)
}
