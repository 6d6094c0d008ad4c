package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/pdf-structurer/constants"
	"github.com/joseph-ayodele/pdf-structurer/internal/common"
)

// ProcessorQueue runs jobs on a fixed pool of workers. Each job gets its own timeout,
// derived from the base context so cancelling the owner reaches queued work too.
type ProcessorQueue struct {
	base    context.Context
	handler Handler
	logger  *slog.Logger
	workers int
	timeout time.Duration
	hook    func(Result)

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	// senders hold the read lock while pushing so Shutdown never closes ch under them.
	mu     sync.RWMutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithBaseContext parents every job context on ctx. Once ctx is done, jobs still in
// the buffer fail without reaching the handler.
func WithBaseContext(ctx context.Context) Option {
	return func(q *ProcessorQueue) {
		if ctx != nil {
			q.base = ctx
		}
	}
}

// WithResultHook is called from the worker goroutine after each job. It must be safe
// for concurrent use.
func WithResultHook(fn func(Result)) Option {
	return func(q *ProcessorQueue) {
		q.hook = fn
	}
}

func NewProcessorQueue(handler Handler, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		base:    context.Background(),
		handler: handler,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("queue.worker.start", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Info("queue.worker.stop", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(workerID int, job Job) {
	res := Result{Job: job, Status: constants.JobStatusRunning, StartedAt: time.Now()}

	if err := q.base.Err(); err != nil {
		res.Err = fmt.Errorf("canceled before start: %w", err)
	} else {
		ctx, cancel := context.WithTimeout(q.base, q.timeout)
		ctx = common.WithRequestID(ctx, job.TraceID)
		ctx = common.WithDocument(ctx, job.Source)
		res.Summary, res.Err = q.handler.Handle(ctx, job)
		cancel()
	}

	res.FinishedAt = time.Now()
	elapsed := res.FinishedAt.Sub(res.StartedAt).Milliseconds()
	if res.Err != nil {
		res.Status = constants.JobStatusFailed
		q.logger.Error("queue.job.failed",
			"worker_id", workerID, "job_id", job.ID, "source", job.Source,
			"error", res.Err, "elapsed_ms", elapsed,
		)
	} else {
		res.Status = constants.JobStatusSucceeded
		q.logger.Info("queue.job.ok",
			"worker_id", workerID, "job_id", job.ID, "source", job.Source,
			"output", res.Summary.Output, "rows", res.Summary.Rows, "elapsed_ms", elapsed,
		)
	}
	if q.hook != nil {
		q.hook(res)
	}
}

// Enqueue blocks while the buffer is full, until ctx is done or the job is accepted.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.logger.Warn("queue.enqueue.closed", "job_id", job.ID, "source", job.Source)
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		q.logger.Info("queue.enqueue.ok", "job_id", job.ID, "source", job.Source, "status", constants.JobStatusQueued)
		return nil
	default:
	}

	q.logger.Warn("queue.enqueue.backpressure", "job_id", job.ID, "source", job.Source)
	select {
	case q.ch <- job:
		q.logger.Info("queue.enqueue.ok", "job_id", job.ID, "source", job.Source, "status", constants.JobStatusQueued)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops intake and waits for queued jobs to finish or ctx to end.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted", "error", ctx.Err())
	case <-done:
		q.logger.Info("queue.shutdown.drained")
	}
}
