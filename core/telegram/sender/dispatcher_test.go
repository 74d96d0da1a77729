package sender

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2, QueueSize: 8})
	defer d.Close()

	var ran atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
			if ran.Add(1) == 5 {
				close(done)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("jobs did not finish, ran=%d", ran.Load())
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	defer d.Close()

	block := make(chan struct{})
	// First job occupies the single worker.
	_ = d.Enqueue(context.Background(), "a", "e", func() error {
		<-block
		return nil
	})

	var err error
	deadline := time.After(time.Second)
	for {
		err = d.Enqueue(context.Background(), "b", "e", func() error { return nil })
		if errors.Is(err, ErrQueueFull) {
			break
		}
		select {
		case <-deadline:
			close(block)
			t.Fatalf("queue never filled, last err = %v", err)
		default:
		}
	}
	close(block)
}

func TestDispatcherClosedQueue(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	d.Close()
	if err := d.Enqueue(context.Background(), "a", "e", func() error { return nil }); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

func TestDispatcherCountsFailures(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 4})
	boom := errors.New("permanent failure")
	done := make(chan struct{})
	_ = d.Enqueue(context.Background(), "a", "e", func() error {
		defer close(done)
		return boom
	})
	<-done
	d.Close()
	if got := d.ErrorCount(); got != 1 {
		t.Fatalf("error count = %d, want 1", got)
	}
}
