package export

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/parsertg/parsertg/core/logger"

	"log/slog"
)

var (
	// ErrPoolClosed is returned by Submit after Close.
	ErrPoolClosed = errors.New("export: pool closed")
	// ErrPoolFull is returned by Submit when the job queue is saturated.
	ErrPoolFull = errors.New("export: pool queue full")
)

// Job is a unit of export work executed on a pool worker.
type Job func(ctx context.Context)

// PoolOptions configures the export worker pool.
type PoolOptions struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// Pool runs export jobs off the update-handling path on a fixed set of
// workers. Each job gets its own timeout-bounded context.
type Pool struct {
	jobs    chan Job
	timeout time.Duration

	wg       sync.WaitGroup
	closedMu sync.Mutex
	closed   bool
}

// NewPool starts a worker pool with the given options.
func NewPool(opts PoolOptions) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 32
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 2 * time.Minute
	}

	p := &Pool{
		jobs:    make(chan Job, opts.QueueSize),
		timeout: opts.JobTimeout,
	}
	for i := 0; i < opts.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

// Submit enqueues a job without blocking.
func (p *Pool) Submit(job Job) error {
	if job == nil {
		return nil
	}
	p.closedMu.Lock()
	defer p.closedMu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrPoolFull
	}
}

// Close stops accepting jobs and waits for in-flight ones to finish.
func (p *Pool) Close() {
	p.closedMu.Lock()
	if p.closed {
		p.closedMu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.closedMu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(id, job)
	}
}

func (p *Pool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Export.Error("export job panic",
				slog.String("event", "job.panic"),
				slog.Int("worker", id),
				slog.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	job(ctx)
}
