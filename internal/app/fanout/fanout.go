// Package fanout runs a function across a slice of items using one
// goroutine per item, bounded by a semaphore, preserving input order in the
// results. The compensation phase of the content upsert step uses it to
// restore snapshotted documents concurrently: each restore targets a
// disjoint document, so ordering across items is irrelevant.
package fanout

import (
	"context"
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
// goroutine records ctx.Err() without calling fn. Goroutines that already
// hold a slot run to completion. Run blocks until all goroutines finish; an
// empty input returns an empty non-nil slice. maxWorkers must be >= 1.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return []Result[R]{}
	}

	results := make([]Result[R], len(items))
	sem := make(chan struct{}, maxWorkers)

	var wg sync.WaitGroup
	wg.Add(len(items))
	for i, item := range items {
		go func() {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[i] = Result[R]{Err: ctx.Err()}
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			val, err := fn(ctx, item)
			results[i] = Result[R]{Value: val, Err: err}
		}()
	}
	wg.Wait()

	return results
}
