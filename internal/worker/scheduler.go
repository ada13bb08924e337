package worker

import (
	"context"

	"go.uber.org/zap"
	"md-link-check/internal/domain"
)

// dispatcher feeds the links of one run to the workers. Once the run
// context is done it stops handing out work and answers every remaining
// link itself with an unchecked verdict.
type dispatcher struct {
	links   []domain.Link
	logger  *zap.Logger
	metrics domain.MetricsCollector
}

func newDispatcher(set *domain.LinkSet, metrics domain.MetricsCollector, logger *zap.Logger) *dispatcher {
	return &dispatcher{
		links:   set.Links(),
		logger:  logger.With(zap.String("component", "dispatcher")),
		metrics: metrics,
	}
}

func (d *dispatcher) Start(ctx context.Context, jobs chan<- domain.Link, verdicts chan<- domain.Verdict) {
	defer close(jobs)

	for i, link := range d.links {
		if ctx.Err() != nil {
			d.abandon(ctx, d.links[i:], verdicts)
			return
		}

		select {
		case jobs <- link:
			d.logger.Debug("dispatched link", zap.String("link", string(link)))
			d.metrics.RecordDispatch()
		case <-ctx.Done():
			d.abandon(ctx, d.links[i:], verdicts)
			return
		}
	}
}

func (d *dispatcher) abandon(ctx context.Context, rest []domain.Link, verdicts chan<- domain.Verdict) {
	d.logger.Info("run cancelled, skipping remaining links",
		zap.Int("skipped", len(rest)),
		zap.Error(ctx.Err()))

	for _, link := range rest {
		v := domain.Unchecked(link, ctx.Err())
		d.metrics.RecordVerdict(v)
		verdicts <- v
	}
}
