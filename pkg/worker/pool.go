package worker

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"keyword-seasonality/pkg/logger"
)

// TaskFunc processes item i of a batch
type TaskFunc func(ctx context.Context, i int) error

// PoolConfig holds configuration for the worker pool
type PoolConfig struct {
	MaxWorkers    int  `mapstructure:"max_workers"`
	EnableMetrics bool `mapstructure:"enable_metrics"`
}

// DefaultPoolConfig returns one worker per CPU with metrics enabled
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxWorkers:    runtime.NumCPU(),
		EnableMetrics: true,
	}
}

// Pool runs batches of independent tasks with bounded concurrency
type Pool struct {
	config  PoolConfig
	metrics *PoolMetrics
	log     *logger.Logger
}

// NewPool creates a pool. A non-positive MaxWorkers falls back to the CPU count.
func NewPool(config PoolConfig) *Pool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = runtime.NumCPU()
	}

	pool := &Pool{
		config: config,
		log:    logger.GetLogger().Component("worker_pool"),
	}
	if config.EnableMetrics {
		pool.metrics = NewPoolMetrics()
	}
	return pool
}

// MaxWorkers returns the concurrency bound
func (p *Pool) MaxWorkers() int {
	return p.config.MaxWorkers
}

// Run executes fn for every index in [0, n). A failing task does not stop
// the others; its error is returned in the slot of the same index. The
// second return value is non-nil only when ctx was cancelled before every
// task could start.
func (p *Pool) Run(ctx context.Context, n int, fn TaskFunc) ([]error, error) {
	errs := make([]error, n)
	if n == 0 {
		return errs, nil
	}

	p.log.WithFields(map[string]interface{}{
		"tasks":       n,
		"max_workers": p.config.MaxWorkers,
	}).Debug("Starting batch")

	progress := logger.NewProgressReporter(n, "Scoring keywords")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.MaxWorkers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}

		if p.metrics != nil {
			p.metrics.IncrementTasksSubmitted()
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			err := p.runTask(gctx, i, fn)
			errs[i] = err

			if p.metrics != nil {
				p.metrics.RecordTaskResult(err, time.Since(start))
			}
			progress.Update(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errs, fmt.Errorf("batch cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return errs, fmt.Errorf("batch cancelled: %w", err)
	}

	return errs, nil
}

// runTask converts a panicking task into an error
func (p *Pool) runTask(ctx context.Context, i int, fn TaskFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %d panicked: %v", i, r)
			p.log.WithField("task", i).Error("Task panic recovered")
		}
	}()
	return fn(ctx, i)
}

// Metrics returns a snapshot of pool metrics, or nil when disabled
func (p *Pool) Metrics() *MetricsSnapshot {
	if p.metrics == nil {
		return nil
	}
	snapshot := p.metrics.GetSnapshot()
	return &snapshot
}
