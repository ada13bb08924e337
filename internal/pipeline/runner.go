package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"md-link-check/internal/domain"
	"md-link-check/internal/exporter"
	"md-link-check/internal/extract"
	"md-link-check/internal/link"
	"md-link-check/internal/report"
	"md-link-check/internal/source"
	"md-link-check/internal/worker"
)

var Module = fx.Options(
	fx.Provide(NewRunner),
)

type RunnerParams struct {
	fx.In

	Loader    *source.Loader
	Extractor *extract.Extractor
	Pattern   link.Pattern
	Pool      *worker.Pool
	Reporter  *report.Reporter
	Exporters *exporter.Manager
	Metrics   domain.MetricsCollector
	Logger    *zap.Logger
}

// Runner executes one check: load, extract, deduplicate, check, report.
type Runner struct {
	loader    *source.Loader
	extractor *extract.Extractor
	pattern   link.Pattern
	pool      *worker.Pool
	reporter  *report.Reporter
	exporters *exporter.Manager
	metrics   domain.MetricsCollector
	logger    *zap.Logger
}

type Summary struct {
	Blobs     int
	Stats     link.Stats
	Links     *domain.LinkSet
	Verdicts  []domain.Verdict
	Invalid   []domain.Verdict
	Unchecked int
	Duration  time.Duration
}

func (s *Summary) RunSummary() domain.RunSummary {
	return domain.RunSummary{
		Links:     s.Links.Len(),
		Invalid:   len(s.Invalid),
		Unchecked: s.Unchecked,
		Duration:  s.Duration,
	}
}

func NewRunner(p RunnerParams) *Runner {
	return &Runner{
		loader:    p.Loader,
		extractor: p.Extractor,
		pattern:   p.Pattern,
		pool:      p.Pool,
		reporter:  p.Reporter,
		exporters: p.Exporters,
		metrics:   p.Metrics,
		logger:    p.Logger.With(zap.String("component", "pipeline")),
	}
}

// Run performs a full check. The report is written even when ctx is
// cancelled midway; links that were not checked are left out of it and
// ctx's error is returned alongside the summary.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	blobs, err := r.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	set, stats := r.collect(blobs)
	r.metrics.RecordCandidates(stats.Candidates, set.Len())
	r.logger.Info("links collected",
		zap.Int("blobs", len(blobs)),
		zap.Int("candidates", stats.Candidates),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("filtered", stats.Filtered),
		zap.Int("unique", set.Len()))

	if set.Len() == 0 {
		if r.pattern != "" {
			r.logger.Warn("no links match pattern", zap.String("pattern", string(r.pattern)))
		} else {
			r.logger.Warn("no links found")
		}
	}

	verdicts := r.pool.Check(ctx, set)

	invalid, err := r.reporter.Report(set, verdicts)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Blobs:    len(blobs),
		Stats:    stats,
		Links:    set,
		Verdicts: verdicts,
		Invalid:  invalid,
		Duration: time.Since(start),
	}
	for _, v := range verdicts {
		if v.Outcome == domain.OutcomeUnchecked {
			summary.Unchecked++
		}
	}

	r.logSummary(summary)

	// the run's context may already be cancelled, exporters still get to
	// report what was found
	r.exporters.Export(context.WithoutCancel(ctx), summary.RunSummary())

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (r *Runner) collect(blobs []domain.Blob) (*domain.LinkSet, link.Stats) {
	b := r.pattern.NewBuilder()
	for _, blob := range blobs {
		b.AddAll(r.extractor.Blob(blob))
	}
	return b.LinkSet(), b.Stats()
}

func (r *Runner) logSummary(s *Summary) {
	fields := []zap.Field{
		zap.Int("links", s.Links.Len()),
		zap.Int("invalid", len(s.Invalid)),
		zap.Duration("duration", s.Duration),
	}

	if s.Unchecked > 0 {
		r.logger.Warn("run cancelled before every link was checked",
			append(fields, zap.Int("unchecked", s.Unchecked))...)
	}

	if len(s.Invalid) == 0 {
		if s.Unchecked == 0 {
			r.logger.Info("All links correct!", fields...)
		}
		return
	}
	r.logger.Warn(fmt.Sprintf("%d invalid links", len(s.Invalid)), fields...)
}
