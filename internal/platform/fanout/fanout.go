// Package fanout provides small concurrency helpers for running independent
// units of work in parallel: a bounded-concurrency mapper that preserves input
// order, and a joiner that runs heterogeneous tasks and aggregates their
// errors. Both respect context cancellation and have no dependencies beyond
// the standard library.
package fanout

import (
	"context"
	"errors"
	"sync"
)

// Result holds the outcome of processing a single item.
// Either Value is populated (on success) or Err is non-nil (on failure).
type Result[R any] struct {
	Value R
	Err   error
}

// Run executes fn for each item in items using at most maxWorkers concurrent
// goroutines. Results are returned in the same order as the input items.
//
// If ctx is canceled while a goroutine is waiting for a semaphore slot, that
// goroutine records ctx.Err() and does not call fn. Goroutines that have
// already acquired a slot run to completion.
//
// Run blocks until all goroutines complete. If items is empty, it returns an
// empty non-nil slice immediately. maxWorkers must be >= 1.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return []Result[R]{}
	}

	results := make([]Result[R], len(items))
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = Result[R]{Err: ctx.Err()}
				return
			}

			val, err := fn(ctx, it)
			results[idx] = Result[R]{Value: val, Err: err}
		}(i, item)
	}

	wg.Wait()
	return results
}

// Join runs each fn concurrently and waits for all of them. It returns nil
// when every fn succeeds; otherwise the errors are combined with errors.Join
// in argument order. If ctx is already canceled no fn is called and ctx.Err()
// is returned.
//
// Join is for a small fixed set of heterogeneous tasks, such as refreshing a
// list and its aggregate stats in one round trip. Each fn writes its own
// result through its closure.
func Join(ctx context.Context, fns ...func(context.Context) error) error {
	if len(fns) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	errs := make([]error, len(fns))
	var wg sync.WaitGroup

	for i, fn := range fns {
		wg.Add(1)
		go func(idx int, f func(context.Context) error) {
			defer wg.Done()
			errs[idx] = f(ctx)
		}(i, fn)
	}

	wg.Wait()
	return errors.Join(errs...)
}
