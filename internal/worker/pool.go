package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"md-link-check/internal/checker"
	"md-link-check/internal/config"
	"md-link-check/internal/domain"
)

// Pool checks link sets with a fixed number of workers.
type Pool struct {
	size        int
	gracePeriod time.Duration
	checker     checker.Checker
	metrics     domain.MetricsCollector
	logger      *zap.Logger
	runs        sync.WaitGroup
}

type PoolConfig struct {
	WorkerCount int
	GracePeriod time.Duration
}

func NewPool(
	cfg *config.Config,
	checker checker.Checker,
	metrics domain.MetricsCollector,
	logger *zap.Logger,
) (*Pool, error) {
	return New(PoolConfig{
		WorkerCount: cfg.Workers.Count,
		GracePeriod: cfg.Workers.GracePeriod.Std(),
	}, checker, metrics, logger)
}

func New(cfg PoolConfig, checker checker.Checker, metrics domain.MetricsCollector, logger *zap.Logger) (*Pool, error) {
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("%w: worker count must be positive, got %d", config.ErrInvalidConfig, cfg.WorkerCount)
	}
	if cfg.GracePeriod < 0 {
		return nil, fmt.Errorf("%w: grace period must not be negative, got %s", config.ErrInvalidConfig, cfg.GracePeriod)
	}

	return &Pool{
		size:        cfg.WorkerCount,
		gracePeriod: cfg.GracePeriod,
		checker:     checker,
		metrics:     metrics,
		logger:      logger.With(zap.String("component", "pool")),
	}, nil
}

// Run checks every link of set and streams one verdict per link, in
// completion order. The channel is closed once all verdicts were sent and
// must be drained by the caller.
//
// Cancelling ctx stops dispatching. Links still waiting are reported as
// unchecked right away, probes already running get the grace period to
// finish before they are abandoned.
func (p *Pool) Run(ctx context.Context, set *domain.LinkSet) <-chan domain.Verdict {
	verdicts := make(chan domain.Verdict, p.size)
	jobs := make(chan domain.Link)
	done := make(chan struct{})

	probeCtx, cancelProbes := context.WithCancel(context.WithoutCancel(ctx))

	p.runs.Add(1)
	p.logger.Info("worker pool started",
		zap.Int("worker_count", p.size),
		zap.Int("links", set.Len()))

	var g errgroup.Group

	d := newDispatcher(set, p.metrics, p.logger)
	g.Go(func() error {
		d.Start(ctx, jobs, verdicts)
		return nil
	})

	for i := 0; i < p.size; i++ {
		w := newWorker(i, jobs, p.checker, p.metrics, p.logger)
		g.Go(func() error {
			w.Start(probeCtx, verdicts)
			return nil
		})
	}

	// Monitor parent context
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}

		timer := time.NewTimer(p.gracePeriod)
		defer timer.Stop()

		select {
		case <-timer.C:
			p.logger.Warn("grace period expired, abandoning in-flight probes",
				zap.Duration("grace_period", p.gracePeriod))
			cancelProbes()
		case <-done:
		}
	}()

	go func() {
		defer p.runs.Done()
		_ = g.Wait()
		close(done)
		cancelProbes()
		close(verdicts)
		p.logger.Debug("worker pool finished")
	}()

	return verdicts
}

// Check runs the pool over set and collects the verdicts.
func (p *Pool) Check(ctx context.Context, set *domain.LinkSet) []domain.Verdict {
	out := make([]domain.Verdict, 0, set.Len())
	for v := range p.Run(ctx, set) {
		out = append(out, v)
	}
	return out
}

// Stop waits for runs still in progress.
func (p *Pool) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.runs.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Debug("worker pool stopped gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker pool shutdown timed out: %w", ctx.Err())
	}
}
