// Package worker runs CPU-bound image processing off the request path.
//
// A fixed pool of goroutines consumes batch jobs from a bounded queue.
// Each upload request submits one job; when the queue is full the request
// is rejected instead of growing memory without limit.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"

	"imgpress/internal/models"
)

// Processor handles a single descriptor. Implemented by engine.Engine.
type Processor interface {
	Process(ctx context.Context, d models.FileDescriptor) (models.ProcessingResult, error)
}

// Batch is the single message a job emits on completion: either the full
// result list or an error, never a partial list.
type Batch struct {
	Results []models.ProcessingResult
	Err     error
}

type job struct {
	ctx         context.Context
	descriptors []models.FileDescriptor
	result      chan Batch
}

type Pool struct {
	proc Processor
	jobs chan job
	wg   sync.WaitGroup
}

// NewPool starts workers goroutines consuming from a queue of queueSize
// pending batches. workers < 1 is clamped to 1.
func NewPool(proc Processor, workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{proc: proc, jobs: make(chan job, queueSize)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

// Dispatch enqueues one batch and returns the channel its Batch will be
// delivered on. The descriptor slice is snapshotted, so the caller may
// reuse its slice. Returns models.ErrEmptyBatch for an empty batch and
// models.ErrQueueFull when the queue cannot take another job.
func (p *Pool) Dispatch(ctx context.Context, descriptors []models.FileDescriptor) (<-chan Batch, error) {
	const op = "worker.Dispatch"

	if len(descriptors) == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrEmptyBatch)
	}

	j := job{
		ctx:         ctx,
		descriptors: slices.Clone(descriptors),
		// Buffered so a worker never blocks on a caller that went away.
		result: make(chan Batch, 1),
	}

	select {
	case p.jobs <- j:
		return j.result, nil
	default:
		return nil, fmt.Errorf("%s: %w", op, models.ErrQueueFull)
	}
}

// Close stops accepting jobs and waits for in-flight batches to finish.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

func (p *Pool) run() {
	defer p.wg.Done()
	for j := range p.jobs {
		j.result <- p.process(j)
	}
}

// process is all-or-nothing: the first failed descriptor fails the batch.
func (p *Pool) process(j job) (b Batch) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker panic recovered",
				"panic", r,
				"stack", string(debug.Stack()))
			b = Batch{Err: fmt.Errorf("worker.process: panic: %v", r)}
		}
	}()

	results := make([]models.ProcessingResult, 0, len(j.descriptors))
	for _, d := range j.descriptors {
		if err := j.ctx.Err(); err != nil {
			return Batch{Err: fmt.Errorf("worker.process: %w", err)}
		}
		res, err := p.proc.Process(j.ctx, d)
		if err != nil {
			return Batch{Err: err}
		}
		results = append(results, res)
	}
	return Batch{Results: results}
}
