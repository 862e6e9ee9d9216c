// Package worker runs the journal worker pool draining the analytics
// queue into a sink.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/mindloop/acumen/internal/adapters/mq/queue"
	"github.com/mindloop/acumen/pkg/logger"
	"github.com/mindloop/acumen/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2
	poolShutdownTimeout     = 10 * time.Second
)

// Sink receives journal entries off the queue.
type Sink interface {
	Append(ctx context.Context, e queue.Entry)
}

// Worker drains the queue into the sink until stopped.
type Worker struct {
	queue    queue.Queue
	sink     Sink
	name     string
	shutdown chan struct{}
	done     chan struct{}
	logger   logger.Logger
}

// NewWorker creates a single journal worker.
func NewWorker(q queue.Queue, sink Sink, name string) *Worker {
	return &Worker{
		queue:    q,
		sink:     sink,
		name:     name,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named(name),
	}
}

// Run starts the worker loop until ctx is cancelled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	entries := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case e, ok := <-entries:
			if !ok {
				return
			}
			w.sink.Append(ctx, e)
			metrics.RecordJournalAppend()
		}
	}
}

// Shutdown stops the worker, waiting for the loop to exit.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "journal worker shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Pool manages a fixed set of journal workers.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers over the queue/sink.
func NewPool(workerCount int, q queue.Queue, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("journal-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, sink, "journal-"+strconv.Itoa(i))
	}
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop shuts the workers down with a bounded wait.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), poolShutdownTimeout)
	defer cancel()
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker did not stop cleanly", logger.Error(err))
		}
	}
}
