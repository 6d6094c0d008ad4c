package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-structurer/constants"
)

// ErrQueueClosed is returned by Enqueue once Shutdown has begun.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one document to turn into a spreadsheet.
type Job struct {
	ID          uuid.UUID
	Source      string // local path or gs:// uri of the PDF
	Dest        string // where the artifact goes
	SubmittedAt time.Time
	TraceID     string // becomes the pipeline request id
}

// NewJob stamps a fresh id and submission time.
func NewJob(source, dest string) Job {
	id := uuid.New()
	return Job{
		ID:          id,
		Source:      source,
		Dest:        dest,
		SubmittedAt: time.Now(),
		TraceID:     id.String(),
	}
}

// Summary is what a handler reports about a finished job.
type Summary struct {
	Output string
	Rows   int
	Pages  int
}

// Handler does the work for a single job.
type Handler interface {
	Handle(ctx context.Context, job Job) (Summary, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job Job) (Summary, error)

func (f HandlerFunc) Handle(ctx context.Context, job Job) (Summary, error) {
	return f(ctx, job)
}

// Result is delivered to the result hook after every job.
type Result struct {
	Job        Job
	Status     constants.JobStatus
	Summary    Summary
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
