// Package health provides a thread-safe health check registry for tracking
// the health of service dependencies. The registry is used by the readiness
// endpoint to determine whether the service can accept traffic.
package health

import (
	"context"
	"sync"

	"github.com/taskfolio/todo-service/internal/platform/fanout"
	"github.com/taskfolio/todo-service/internal/ports"
)

// maxConcurrentChecks bounds how many health checks run at once during a
// readiness probe.
const maxConcurrentChecks = 4

// Compile-time interface check.
var _ ports.HealthRegistry = (*Registry)(nil)

// Registry is a thread-safe implementation of [ports.HealthRegistry].
// Components that implement [ports.HealthChecker] are registered at startup
// and checked on each readiness probe.
type Registry struct {
	mu       sync.RWMutex
	checkers []ports.HealthChecker
}

// New creates an empty health check registry.
func New() *Registry {
	return &Registry{}
}

// Register adds a health checker to the registry. Safe for concurrent use.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, checker)
}

// checkResult pairs a checker's name with its outcome so the concurrent
// results can be keyed after the fan-out completes.
type checkResult struct {
	name string
	err  error
}

// CheckAll executes all registered health checks concurrently (bounded by
// maxConcurrentChecks) and returns results keyed by checker name. Nil values
// indicate healthy components. The slice is copied under a read lock so
// checks run without holding the lock.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := make([]ports.HealthChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	outcomes := fanout.Run(ctx, maxConcurrentChecks, checkers,
		func(ctx context.Context, c ports.HealthChecker) (checkResult, error) {
			return checkResult{name: c.Name(), err: c.HealthCheck(ctx)}, nil
		})

	results := make(map[string]error, len(checkers))
	for i, outcome := range outcomes {
		if outcome.Err != nil {
			// Context canceled before this check could start.
			results[checkers[i].Name()] = outcome.Err
			continue
		}
		results[outcome.Value.name] = outcome.Value.err
	}
	return results
}
