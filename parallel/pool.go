// Package parallel fans independent jobs out to a fixed set of workers.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

type (
	// WorkerFunc queues a job.
	WorkerFunc func(func())
	// WaitFunc blocks until queued jobs are done. With done set, no more
	// jobs may be queued afterwards.
	WaitFunc func(done bool)
	// CancelFunc stops accepting jobs.
	CancelFunc func()
)

type Pool struct {
	wg      sync.WaitGroup
	jobs    chan func()
	pending sync.WaitGroup
	workers int
	ran     atomic.Uint64

	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Start launches numWorkers workers, GOMAXPROCS when below 1. A single
// worker runs every job inline on the caller's goroutine.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{workers: numWorkers}
	if numWorkers == 1 {
		pool.Do = func(f func()) {
			f()
			pool.ran.Add(1)
		}
		pool.Wait = func(bool) {}
		pool.Cancel = func() {}
		return pool
	}

	pool.jobs = make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range pool.jobs {
				f()
				pool.ran.Add(1)
				pool.pending.Done()
			}
		})
	}

	pool.Do = func(f func()) {
		pool.pending.Add(1)
		pool.jobs <- f
	}
	pool.Cancel = sync.OnceFunc(func() { close(pool.jobs) })
	pool.Wait = func(done bool) {
		if done {
			pool.Cancel()
			pool.wg.Wait()
			return
		}
		pool.pending.Wait()
	}

	return pool
}

// Workers is the number of workers the pool was started with.
func (p *Pool) Workers() int { return p.workers }

// Ran is the number of jobs that have completed.
func (p *Pool) Ran() uint64 { return p.ran.Load() }
