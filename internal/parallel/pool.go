// Package parallel provides a bounded worker pool for fanning out
// independent units of work with backpressure and basic statistics.
//
// Adapted from gitrdm/gokanlogic's internal/parallel package, trimmed
// to the StaticWorkerPool shape that C7 (branching seed generation)
// actually drives: a fixed-size pool processing a one-shot fan-out per
// branching round. The dynamic autoscaling pool, the deadlock
// detector, the rate limiter, the load balancer, and the work-stealing
// pool from the teacher's version were dropped — none of them are
// exercised by a bounded, round-based fan-out over disjunctive
// candidate pairs; see DESIGN.md for the per-item justification.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrPoolShutdown is returned by Submit once the pool has been shut
// down.
var ErrPoolShutdown = errors.New("parallel: pool is shut down")

// Pool is a fixed-size worker pool. Workers pull tasks from a buffered
// channel; Submit blocks (respecting ctx) once the buffer is full,
// providing backpressure against a caller that enqueues faster than
// the pool can drain.
type Pool struct {
	maxWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// New creates a pool with maxWorkers goroutines. maxWorkers <= 0
// defaults to runtime.NumCPU().
func New(maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	p := &Pool{
		maxWorkers:   maxWorkers,
		taskChan:     make(chan func(), maxWorkers*2),
		shutdownChan: make(chan struct{}),
	}
	for i := 0; i < maxWorkers; i++ {
		p.workerWg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workerWg.Done()
	for {
		select {
		case task, ok := <-p.taskChan:
			if !ok {
				return
			}
			if task != nil {
				task()
				p.completed.Add(1)
			}
		case <-p.shutdownChan:
			// Run whatever is still queued before exiting, so Shutdown
			// drains accepted work rather than dropping it.
			for {
				select {
				case task := <-p.taskChan:
					if task != nil {
						task()
						p.completed.Add(1)
					}
				default:
					return
				}
			}
		}
	}
}

// Submit enqueues task, blocking until a slot is free, ctx is done, or
// the pool is shut down. task is expected to report its own failures
// via a caller-owned channel or closure capture; Pool itself has no
// notion of task success beyond "ran".
func (p *Pool) Submit(ctx context.Context, task func()) error {
	p.submitted.Add(1)
	select {
	case <-p.shutdownChan:
		p.failed.Add(1)
		return ErrPoolShutdown
	default:
	}
	select {
	case p.taskChan <- task:
		return nil
	case <-ctx.Done():
		p.failed.Add(1)
		return ctx.Err()
	case <-p.shutdownChan:
		p.failed.Add(1)
		return ErrPoolShutdown
	}
}

// Shutdown stops accepting new work and waits for in-flight tasks to
// drain. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.shutdownChan)
		p.workerWg.Wait()
	})
}

// Stats is a snapshot of pool activity counters.
type Stats struct {
	Submitted, Completed, Failed int64
}

// GetStats returns a snapshot of the pool's activity counters.
func (p *Pool) GetStats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}

// WorkerCount returns the fixed number of workers in the pool.
func (p *Pool) WorkerCount() int { return p.maxWorkers }
