package export

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsJobs(t *testing.T) {
	pool := NewPool(PoolOptions{Workers: 2, QueueSize: 8})

	var done int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		err := pool.Submit(func(ctx context.Context) {
			defer wg.Done()
			atomic.AddInt32(&done, 1)
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	wg.Wait()
	pool.Close()

	if done != 5 {
		t.Errorf("done = %d, want 5", done)
	}
}

func TestPoolSubmitAfterClose(t *testing.T) {
	pool := NewPool(PoolOptions{Workers: 1, QueueSize: 1})
	pool.Close()

	err := pool.Submit(func(ctx context.Context) {})
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("err = %v, want ErrPoolClosed", err)
	}
}

func TestPoolQueueFull(t *testing.T) {
	pool := NewPool(PoolOptions{Workers: 1, QueueSize: 1})
	defer pool.Close()

	block := make(chan struct{})
	started := make(chan struct{})
	if err := pool.Submit(func(ctx context.Context) {
		close(started)
		<-block
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	<-started

	if err := pool.Submit(func(ctx context.Context) {}); err != nil {
		t.Fatalf("queued submit: %v", err)
	}
	if err := pool.Submit(func(ctx context.Context) {}); !errors.Is(err, ErrPoolFull) {
		t.Errorf("err = %v, want ErrPoolFull", err)
	}
	close(block)
}

func TestPoolJobTimeout(t *testing.T) {
	pool := NewPool(PoolOptions{Workers: 1, QueueSize: 1, JobTimeout: 10 * time.Millisecond})
	defer pool.Close()

	expired := make(chan bool, 1)
	if err := pool.Submit(func(ctx context.Context) {
		select {
		case <-ctx.Done():
			expired <- true
		case <-time.After(time.Second):
			expired <- false
		}
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !<-expired {
		t.Error("job context did not expire")
	}
}

func TestPoolRecoversFromPanic(t *testing.T) {
	pool := NewPool(PoolOptions{Workers: 1, QueueSize: 2})

	done := make(chan struct{})
	if err := pool.Submit(func(ctx context.Context) { panic("boom") }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := pool.Submit(func(ctx context.Context) { close(done) }); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive panic")
	}
	pool.Close()
}
