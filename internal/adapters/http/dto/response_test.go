package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/taskfolio/todo-service/internal/domain/todo"
	"github.com/taskfolio/todo-service/internal/ports"
)

func sampleTodo() todo.Todo {
	due := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return todo.Todo{
		ID:          "todo-1",
		OwnerID:     "user-1",
		Title:       "Buy groceries",
		Description: "Milk",
		Status:      todo.StatusPending,
		Priority:    todo.PriorityHigh,
		DueDate:     &due,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestToTodoResponse(t *testing.T) {
	t.Parallel()

	td := sampleTodo()
	resp := ToTodoResponse(&td)

	if resp.ID != "todo-1" || resp.OwnerID != "user-1" {
		t.Errorf("identity fields = (%q, %q)", resp.ID, resp.OwnerID)
	}
	if resp.Status != "pending" || resp.Priority != "high" {
		t.Errorf("enums = (%q, %q), want (pending, high)", resp.Status, resp.Priority)
	}
	if resp.DueDate == nil || *resp.DueDate != "2025-06-01T12:00:00Z" {
		t.Errorf("DueDate = %v, want 2025-06-01T12:00:00Z", resp.DueDate)
	}
	if resp.CreatedAt != "2025-01-01T00:00:00Z" {
		t.Errorf("CreatedAt = %q", resp.CreatedAt)
	}

	t.Run("nil due date is omitted from JSON", func(t *testing.T) {
		t.Parallel()

		td := sampleTodo()
		td.DueDate = nil

		raw, err := json.Marshal(ToTodoResponse(&td))
		if err != nil {
			t.Fatalf("marshaling: %v", err)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatalf("unmarshaling: %v", err)
		}
		if _, present := m["dueDate"]; present {
			t.Error("dueDate key present for todo without due date")
		}
	})
}

func TestNewTodoListEnvelope(t *testing.T) {
	t.Parallel()

	t.Run("carries pagination metadata", func(t *testing.T) {
		t.Parallel()

		page := &ports.TodoPage{
			Todos:       []todo.Todo{sampleTodo()},
			CurrentPage: 2,
			TotalPages:  5,
			TotalCount:  42,
		}

		env := NewTodoListEnvelope(page)
		if !env.Success {
			t.Error("Success = false, want true")
		}
		if env.CurrentPage != 2 || env.TotalPages != 5 || env.TotalCount != 42 {
			t.Errorf("pagination = (%d, %d, %d), want (2, 5, 42)",
				env.CurrentPage, env.TotalPages, env.TotalCount)
		}
	})

	t.Run("empty page serializes data as empty array not null", func(t *testing.T) {
		t.Parallel()

		env := NewTodoListEnvelope(&ports.TodoPage{Todos: nil, CurrentPage: 99})
		raw, err := json.Marshal(env)
		if err != nil {
			t.Fatalf("marshaling: %v", err)
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatalf("unmarshaling: %v", err)
		}
		if string(m["data"]) != "[]" {
			t.Errorf("data = %s, want []", m["data"])
		}
	})
}

func TestNewStatsEnvelope(t *testing.T) {
	t.Parallel()

	env := NewStatsEnvelope(&todo.Stats{
		TotalTodos:          10,
		CompletedTodos:      4,
		PendingTodos:        6,
		HighPriorityTodos:   2,
		MediumPriorityTodos: 5,
		LowPriorityTodos:    3,
	})

	if !env.Success {
		t.Error("Success = false, want true")
	}
	if env.Data.TotalTodos != 10 || env.Data.CompletedTodos != 4 || env.Data.PendingTodos != 6 {
		t.Errorf("status counts = %+v", env.Data)
	}
	if env.Data.HighPriorityTodos != 2 || env.Data.MediumPriorityTodos != 5 || env.Data.LowPriorityTodos != 3 {
		t.Errorf("priority counts = %+v", env.Data)
	}
}
