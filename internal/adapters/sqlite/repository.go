// Package sqlite implements the todo repository port on SQLite via sqlx.
// All queries are owner-scoped: a row belonging to another user is
// indistinguishable from a missing row.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskfolio/todo-service/internal/domain"
	"github.com/taskfolio/todo-service/internal/domain/todo"
	"github.com/taskfolio/todo-service/internal/platform/database"
	"github.com/taskfolio/todo-service/internal/ports"
)

// Compile-time check that TodoRepository implements ports.TodoRepository.
var _ ports.TodoRepository = (*TodoRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS todos (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	priority    TEXT NOT NULL,
	due_date    TIMESTAMP,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_todos_owner ON todos(owner_id);
CREATE INDEX IF NOT EXISTS idx_todos_owner_status ON todos(owner_id, status);
`

// todoRow is the sqlx scan target for the todos table.
type todoRow struct {
	ID          string       `db:"id"`
	OwnerID     string       `db:"owner_id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Status      string       `db:"status"`
	Priority    string       `db:"priority"`
	DueDate     sql.NullTime `db:"due_date"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

func (r todoRow) toDomain() todo.Todo {
	t := todo.Todo{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Status:      todo.Status(r.Status),
		Priority:    todo.Priority(r.Priority),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.DueDate.Valid {
		due := r.DueDate.Time.UTC()
		t.DueDate = &due
	}
	return t
}

func toDueDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// TodoRepository persists todos in SQLite.
type TodoRepository struct {
	db *database.DB
}

// NewTodoRepository creates a repository backed by the given database.
func NewTodoRepository(db *database.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// Migrate creates the todos table and indexes if they do not exist.
// Call once at startup before serving requests.
func (r *TodoRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating todos schema: %w", err)
	}
	return nil
}

// List returns one page of the owner's todos matching the query's filters,
// plus the total count over the filtered-but-unpaginated set. The query must
// already be normalized.
func (r *TodoRepository) List(ctx context.Context, ownerID string, query todo.ListQuery) ([]todo.Todo, int64, error) {
	where, args := buildFilter(ownerID, query)

	var total int64
	countSQL := "SELECT COUNT(*) FROM todos " + where
	if err := r.db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("counting todos: %w", err)
	}

	listSQL := fmt.Sprintf(
		"SELECT * FROM todos %s ORDER BY %s LIMIT ? OFFSET ?",
		where, orderClause(query),
	)
	listArgs := append(args, query.Limit, query.Offset())

	var rows []todoRow
	if err := r.db.SelectContext(ctx, &rows, listSQL, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("listing todos: %w", err)
	}

	todos := make([]todo.Todo, len(rows))
	for i, row := range rows {
		todos[i] = row.toDomain()
	}
	return todos, total, nil
}

// buildFilter assembles the owner-scoped WHERE clause with optional equality
// filters. Filter values reach this point already validated against their
// closed enums, and are bound as parameters regardless.
func buildFilter(ownerID string, query todo.ListQuery) (string, []any) {
	clauses := []string{"owner_id = ?"}
	args := []any{ownerID}

	if query.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(query.Status))
	}
	if query.Priority != "" {
		clauses = append(clauses, "priority = ?")
		args = append(args, string(query.Priority))
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// orderClause maps the normalized sort key and direction to a SQL ORDER BY
// body. Every ordering ends with the created_at DESC, id ASC tie-break so
// pagination is stable across requests.
func orderClause(query todo.ListQuery) string {
	dir := "ASC"
	if query.SortOrder == todo.OrderDesc {
		dir = "DESC"
	}

	switch query.SortBy {
	case todo.SortDueDate:
		// NULL due dates sort last in either direction.
		return fmt.Sprintf("due_date IS NULL, due_date %s, created_at DESC, id ASC", dir)
	case todo.SortPriority:
		return fmt.Sprintf(
			"CASE priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 WHEN 'high' THEN 2 END %s, created_at DESC, id ASC",
			dir,
		)
	case todo.SortTitle:
		return fmt.Sprintf("title COLLATE NOCASE %s, created_at DESC, id ASC", dir)
	default:
		return fmt.Sprintf("created_at %s, id ASC", dir)
	}
}

// Get returns a single todo, or domain.ErrNotFound when the row is absent or
// owned by another user.
func (r *TodoRepository) Get(ctx context.Context, ownerID, id string) (*todo.Todo, error) {
	var row todoRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM todos WHERE id = ? AND owner_id = ?", id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching todo %s: %w", id, err)
	}

	t := row.toDomain()
	return &t, nil
}

// Create persists a new todo, assigning its ID and timestamps.
func (r *TodoRepository) Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	now := time.Now().UTC()

	created := *t
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, owner_id, title, description, status, priority, due_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.OwnerID, created.Title, created.Description,
		string(created.Status), string(created.Priority), toDueDate(created.DueDate),
		created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting todo: %w", err)
	}

	return &created, nil
}

// Update replaces the mutable fields of an existing todo and returns the
// updated entity. ID, OwnerID, and CreatedAt never change.
func (r *TodoRepository) Update(ctx context.Context, ownerID, id string, t *todo.Todo) (*todo.Todo, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE todos
		 SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		t.Title, t.Description, string(t.Status), string(t.Priority),
		toDueDate(t.DueDate), time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating todo %s: %w", id, err)
	}
	if err := requireAffected(res, id); err != nil {
		return nil, err
	}

	return r.Get(ctx, ownerID, id)
}

// Delete removes a todo, or returns domain.ErrNotFound when the row is
// absent or owned by another user.
func (r *TodoRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM todos WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	return requireAffected(res, id)
}

// SetStatus sets the todo's status and returns the updated entity. Setting
// the current status again still succeeds and bumps updated_at.
func (r *TodoRepository) SetStatus(ctx context.Context, ownerID, id string, status todo.Status) (*todo.Todo, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE todos SET status = ?, updated_at = ? WHERE id = ? AND owner_id = ?",
		string(status), time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("setting status on todo %s: %w", id, err)
	}
	if err := requireAffected(res, id); err != nil {
		return nil, err
	}

	return r.Get(ctx, ownerID, id)
}

// Stats computes the owner's aggregate counts in one pass with conditional
// aggregation. An owner with no todos gets all-zero counts.
func (r *TodoRepository) Stats(ctx context.Context, ownerID string) (*todo.Stats, error) {
	var row struct {
		Total     int64 `db:"total"`
		Completed int64 `db:"completed"`
		Pending   int64 `db:"pending"`
		High      int64 `db:"high"`
		Medium    int64 `db:"medium"`
		Low       int64 `db:"low"`
	}

	err := r.db.GetContext(ctx, &row,
		`SELECT
			COUNT(*)                                                    AS total,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0)   AS pending,
			COALESCE(SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END), 0)    AS high,
			COALESCE(SUM(CASE WHEN priority = 'medium' THEN 1 ELSE 0 END), 0)  AS medium,
			COALESCE(SUM(CASE WHEN priority = 'low' THEN 1 ELSE 0 END), 0)     AS low
		 FROM todos WHERE owner_id = ?`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("computing todo stats: %w", err)
	}

	return &todo.Stats{
		TotalTodos:          row.Total,
		CompletedTodos:      row.Completed,
		PendingTodos:        row.Pending,
		HighPriorityTodos:   row.High,
		MediumPriorityTodos: row.Medium,
		LowPriorityTodos:    row.Low,
	}, nil
}

// requireAffected converts a zero-row write into domain.ErrNotFound.
func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("todo %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
