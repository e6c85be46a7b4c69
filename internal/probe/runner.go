// Package probe exercises the backend's read-only endpoints concurrently
// and reports per-check outcomes.
package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rpaconsole/internal/adapters/http/client"
	"github.com/okian/rpaconsole/internal/adapters/mq/queue"
	"github.com/okian/rpaconsole/internal/adapters/mq/worker"
	"github.com/okian/rpaconsole/pkg/logger"
	"github.com/okian/rpaconsole/pkg/metrics"
)

type options struct {
	logger  logger.Logger
	metrics *metrics.Manager
}

// Option configures Run.
type Option func(*options)

func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// Run executes every check cfg.Repeat times through a worker pool and
// waits for all of them. When ctx ends early the partial report is
// returned together with ctx's error.
func Run(ctx context.Context, c *client.Client, cfg Config, opts ...Option) (*Report, error) {
	if c == nil {
		return nil, ErrNoClient
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("probe not started: %w", err)
	}
	o := options{logger: logger.Nop(), metrics: metrics.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg = cfg.normalized()
	log := o.logger.Named("probe")

	checks := Checks(cfg)
	report := &Report{RunID: uuid.NewString(), Started: time.Now()}

	jobs := queue.New[Check](queue.WithCapacity(len(checks) * cfg.Repeat))
	for i := 0; i < cfg.Repeat; i++ {
		for _, chk := range checks {
			if !jobs.Enqueue(ctx, chk) {
				return nil, fmt.Errorf("%w: %s", ErrEnqueue, chk.Name)
			}
		}
	}
	if err := jobs.Close(); err != nil {
		return nil, err
	}

	log.Info(ctx, "probe started",
		logger.String("run_id", report.RunID),
		logger.Int("checks", len(checks)),
		logger.Int("repeat", cfg.Repeat),
		logger.String("base_url", c.BaseURL()))

	var mu sync.Mutex
	pool := worker.NewPool[Check](cfg.Workers, jobs, func(ctx context.Context, chk Check) error {
		start := time.Now()
		text, err := chk.Call(ctx, c)
		res := Result{
			Check:    chk.Name,
			Outcome:  Classify(err),
			Duration: time.Since(start),
			Body:     text,
			Err:      err,
		}
		if code, ok := client.StatusCode(err); ok {
			res.Status = code
		}
		o.metrics.RecordProbeCheck(chk.Name, string(res.Outcome))

		mu.Lock()
		report.Results = append(report.Results, res)
		mu.Unlock()
		return err
	}, worker.WithName("probe"), worker.WithLogger(o.logger))

	if err := pool.Start(ctx); err != nil {
		return nil, err
	}
	pool.Wait()
	report.Finished = time.Now()

	log.Info(ctx, "probe finished",
		logger.String("run_id", report.RunID),
		logger.Int("results", len(report.Results)),
		logger.Int("failures", report.Failures()),
		logger.String("duration", report.Duration().String()))

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("probe interrupted: %w", err)
	}
	return report, nil
}
