package parallel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAllSubmittedTasks(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	var count atomic.Int64
	ctx := context.Background()
	const n = 50
	for i := 0; i < n; i++ {
		if err := p.Submit(ctx, func() { count.Add(1) }); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	p.Shutdown()

	if got := count.Load(); got != n {
		t.Errorf("count = %d, want %d", got, n)
	}
	if stats := p.GetStats(); stats.Completed != n {
		t.Errorf("Completed = %d, want %d", stats.Completed, n)
	}
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	p := New(2)
	p.Shutdown()

	err := p.Submit(context.Background(), func() {})
	if err != ErrPoolShutdown {
		t.Errorf("Submit after shutdown: got %v, want ErrPoolShutdown", err)
	}
}

func TestPoolSubmitRespectsContext(t *testing.T) {
	// A pool with no workers running (shutdown immediately after
	// construction races with Submit) is awkward to force full; instead
	// verify that a cancelled context returns promptly even under load.
	p := New(1)
	defer p.Shutdown()

	block := make(chan struct{})
	_ = p.Submit(context.Background(), func() { <-block })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Fill the buffered channel (capacity maxWorkers*2 = 2) then exceed it
	// while the single worker is blocked, forcing Submit to wait on ctx.
	_ = p.Submit(context.Background(), func() {})
	_ = p.Submit(context.Background(), func() {})
	err := p.Submit(ctx, func() {})
	close(block)
	if err != context.DeadlineExceeded {
		t.Errorf("Submit under full queue + blocked workers: got %v, want DeadlineExceeded", err)
	}
}

func TestWorkerCount(t *testing.T) {
	p := New(6)
	defer p.Shutdown()
	if p.WorkerCount() != 6 {
		t.Errorf("WorkerCount() = %d, want 6", p.WorkerCount())
	}
}
