package todo

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskfolio/todo-service/internal/domain"
)

// Field length limits enforced on create and update.
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
)

// Todo represents a single task record owned by one user. ID and OwnerID are
// opaque identifiers assigned at creation and never change afterwards.
type Todo struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks business rules for the Todo entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (t *Todo) Validate() error {
	fields := make(map[string]string)

	// Length limits count characters, not bytes, so multibyte titles are
	// not penalized.
	title := strings.TrimSpace(t.Title)
	if title == "" {
		fields["title"] = domain.MsgRequired
	} else if utf8.RuneCountInString(title) > MaxTitleLen {
		fields["title"] = maxLenMsg(MaxTitleLen)
	}
	if utf8.RuneCountInString(strings.TrimSpace(t.Description)) > MaxDescriptionLen {
		fields["description"] = maxLenMsg(MaxDescriptionLen)
	}
	if !t.Status.IsValid() {
		fields["status"] = invalidMsg(string(t.Status))
	}
	if !t.Priority.IsValid() {
		fields["priority"] = invalidMsg(string(t.Priority))
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Normalize trims whitespace from the free-text fields and fills in default
// status and priority for zero values. Called before Validate so that
// length checks operate on the trimmed form.
func (t *Todo) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}
