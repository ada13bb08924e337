package worker

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"md-link-check/internal/checker"
	"md-link-check/internal/domain"
)

type worker struct {
	id      int
	jobs    <-chan domain.Link
	checker checker.Checker
	logger  *zap.Logger
	metrics domain.MetricsCollector
}

func newWorker(
	id int,
	jobs <-chan domain.Link,
	checker checker.Checker,
	metrics domain.MetricsCollector,
	logger *zap.Logger,
) *worker {
	return &worker{
		id:      id,
		jobs:    jobs,
		checker: checker,
		logger:  logger.With(zap.Int("worker_id", id)),
		metrics: metrics,
	}
}

// Start checks links until the jobs channel is closed. Every received link
// produces exactly one verdict on out.
func (w *worker) Start(ctx context.Context, out chan<- domain.Verdict) {
	workerID := strconv.Itoa(w.id)
	w.metrics.RecordWorkerStart(workerID)
	w.logger.Debug("worker started")
	defer func() {
		w.metrics.RecordWorkerStop(workerID)
		w.logger.Debug("worker stopped")
	}()

	for link := range w.jobs {
		v := w.processCheck(ctx, link)
		w.metrics.RecordVerdict(v)
		out <- v
	}
}

func (w *worker) processCheck(ctx context.Context, link domain.Link) (v domain.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("worker panic recovered",
				zap.String("link", string(link)),
				zap.Any("panic", r),
				zap.Stack("stack"))
			v = domain.Invalid(link, domain.ReasonInternal,
				NewCheckError(link, "probe", fmt.Errorf("checker panicked: %v", r)))
		}
	}()

	return w.checker.Check(ctx, link)
}
