// Package worker runs jobs pulled from a queue on a fixed set of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/okian/rpaconsole/pkg/logger"
)

// Source is where workers read jobs from.
type Source[T any] interface {
	Dequeue(ctx context.Context) <-chan T
}

// Handler processes one job. An error is logged and counted; it does not
// stop the worker.
type Handler[T any] func(ctx context.Context, job T) error

// Pool manages a fixed number of workers sharing one source.
type Pool[T any] struct {
	size    int
	source  Source[T]
	handle  Handler[T]
	name    string
	logger  logger.Logger
	wg      sync.WaitGroup
	started atomic.Bool

	processed atomic.Int64
	failed    atomic.Int64
}

// NewPool creates a pool of size workers. A size below 1 uses runtime.NumCPU().
func NewPool[T any](size int, source Source[T], handle Handler[T], opts ...Option) *Pool[T] {
	if size < 1 {
		size = runtime.NumCPU()
	}
	s := settings{name: "worker-pool", logger: logger.Nop()}
	for _, opt := range opts {
		opt(&s)
	}
	return &Pool[T]{
		size:   size,
		source: source,
		handle: handle,
		name:   s.name,
		logger: s.logger.Named(s.name),
	}
}

// Start launches the workers. They stop when the source is drained and
// closed or ctx is done. Calling Start twice is an error.
func (p *Pool[T]) Start(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", p.name, ErrStarted)
	}
	jobs := p.source.Dequeue(ctx)
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, p.name+"-"+strconv.Itoa(i), jobs)
	}
	return nil
}

func (p *Pool[T]) run(ctx context.Context, name string, jobs <-chan T) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := p.handle(ctx, job); err != nil {
				p.failed.Add(1)
				p.logger.Debug(ctx, "job failed", logger.String("worker", name), logger.Error(err))
			}
			p.processed.Add(1)
		}
	}
}

// Wait blocks until every worker has returned.
func (p *Pool[T]) Wait() { p.wg.Wait() }

// Shutdown waits for the workers, giving up when ctx is done.
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "worker shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Size returns the number of workers.
func (p *Pool[T]) Size() int { return p.size }

// Processed returns how many jobs were handled, including failed ones.
func (p *Pool[T]) Processed() int64 { return p.processed.Load() }

// Failed returns how many jobs returned an error.
func (p *Pool[T]) Failed() int64 { return p.failed.Load() }
