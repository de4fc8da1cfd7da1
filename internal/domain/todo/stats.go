package todo

// Stats is the derived, non-persisted aggregate over one owner's todos.
// It is recomputed on every request and never cached. Each todo contributes
// to exactly one status bucket and exactly one priority bucket, so
// Completed+Pending == Total and High+Medium+Low == Total always hold.
type Stats struct {
	TotalTodos          int64
	CompletedTodos      int64
	PendingTodos        int64
	HighPriorityTodos   int64
	MediumPriorityTodos int64
	LowPriorityTodos    int64
}

// CompletionRate returns the completed fraction as a percentage in [0, 100].
// Returns 0 when there are no todos.
func (s Stats) CompletionRate() int {
	if s.TotalTodos == 0 {
		return 0
	}
	return int(float64(s.CompletedTodos)/float64(s.TotalTodos)*100 + 0.5)
}
