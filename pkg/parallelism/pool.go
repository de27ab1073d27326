// Package parallelism provides the bounded worker-pool primitive used by the
// overwrite detector and the executor to cap concurrent hashing and
// filesystem IO. It is a generalization of the teacher's own fixed-size SIMD
// worker array: instead of broadcasting one workload to every worker, it
// dispatches a stream of independent tasks across a bounded number of worker
// Goroutines and short-circuits on the first error.
package parallelism

import (
	"context"
	"sync"
)

// Task is a unit of work submitted to Run. The index is the task's
// position in the original submission order; tasks may complete out of
// order, but callers that need to report progress or attribute errors to a
// specific item can use the index to look it up.
type Task func(ctx context.Context, index int) error

// Run executes tasks across up to degree concurrent workers, short-circuiting
// as soon as one task returns a non-nil error. If degree is less than 1, a
// degree of 1 is used. Tasks receive a context derived from ctx, which Run
// cancels when the first error is observed; ctx itself is left to the caller
// (Run does not own it). After an error Run stops dispatching new tasks, but
// does not forcibly interrupt tasks already in flight beyond whatever the
// task itself does in response to its context's Done channel.
//
// The returned error is the first error encountered, in submission order ties
// broken arbitrarily by goroutine scheduling -- no ordering guarantee is made
// beyond "first observed."
func Run(ctx context.Context, degree int, count int, task Task) error {
	if count <= 0 {
		return nil
	}
	if degree < 1 {
		degree = 1
	}
	if degree > count {
		degree = count
	}

	innerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	indices := make(chan int)
	errs := make(chan error, degree)

	var wg sync.WaitGroup
	wg.Add(degree)
	for w := 0; w < degree; w++ {
		go func() {
			defer wg.Done()
			for index := range indices {
				if err := task(innerCtx, index); err != nil {
					errs <- err
					cancel()
					return
				}
			}
		}()
	}

	go func() {
		defer close(indices)
		for i := 0; i < count; i++ {
			select {
			case indices <- i:
			case <-innerCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(errs)
	}()

	var firstErr error
	for err := range errs {
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return firstErr
}
