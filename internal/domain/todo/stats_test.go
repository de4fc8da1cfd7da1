package todo

import "testing"

func TestStats_CompletionRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stats Stats
		want  int
	}{
		{"no todos", Stats{}, 0},
		{"all completed", Stats{TotalTodos: 4, CompletedTodos: 4}, 100},
		{"half completed", Stats{TotalTodos: 4, CompletedTodos: 2}, 50},
		{"rounds to nearest", Stats{TotalTodos: 3, CompletedTodos: 2}, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.stats.CompletionRate(); got != tt.want {
				t.Errorf("CompletionRate() = %d, want %d", got, tt.want)
			}
		})
	}
}
