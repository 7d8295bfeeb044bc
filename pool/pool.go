// ABOUTME: Bounded worker pool for batch playlist jobs
// ABOUTME: Wraps a pond pool with a run-every-index-and-collect-errors helper

// Package pool runs independent jobs on a bounded set of workers.
package pool

import (
	"context"
	"runtime"

	"github.com/alitto/pond"
)

// WorkerPool runs submitted jobs on at most a fixed number of goroutines
type WorkerPool struct {
	workers int
	pool    *pond.WorkerPool
}

// NewWorkerPool creates a pool with the given number of workers.
// workers <= 0 sizes the pool to the available CPUs. queueSize bounds the
// number of waiting jobs; Submit blocks when it is full.
func NewWorkerPool(workers, queueSize int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers: workers,
		pool:    pond.New(workers, queueSize),
	}
}

// Workers returns the pool size
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Each calls fn for every index in [0, n) and waits for all of them.
// The returned slice holds fn's error for each index. Indexes that had not
// started when ctx was canceled get ctx.Err().
func (p *WorkerPool) Each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	group := p.pool.Group()

	for i := range n {
		group.Submit(func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}

			errs[i] = fn(ctx, i)
		})
	}

	group.Wait()

	return errs
}

// Close waits for running jobs and stops the workers
func (p *WorkerPool) Close() {
	p.pool.StopAndWait()
}
