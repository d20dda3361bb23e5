// Package pool runs per-file work on a bounded number of goroutines.
package pool

import (
	"context"
	"runtime"
	"sync"
)

// DefaultWorkers is the concurrency used when a caller passes workers <= 0
var DefaultWorkers = runtime.NumCPU()

// Result is the outcome of fn for one input
type Result[R any] struct {
	Value R
	Err   error
}

// Map calls fn for every item using at most workers goroutines and returns
// the results in input order. Items not yet started when ctx is cancelled
// are reported with ctx.Err().
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) []Result[R] {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]Result[R], len(items))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		wg.Add(1)
		sem <- struct{}{} // Acquire worker

		go func(i int, item T) {
			defer wg.Done()
			defer func() { <-sem }() // Release worker

			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			v, err := fn(ctx, item)
			results[i] = Result[R]{Value: v, Err: err}
		}(i, item)
	}

	wg.Wait()
	return results
}
