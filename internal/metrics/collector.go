package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"md-link-check/internal/config"
	"md-link-check/internal/domain"
)

const namespace = "md_link_check"

// Module provides the metrics collector
var Module = fx.Options(
	fx.Provide(NewCollector),
	fx.Provide(func(c *Collector) domain.MetricsCollector { return c }),
	fx.Invoke(registerHooks),
)

type Collector struct {
	logger          *zap.Logger
	registry        *prometheus.Registry
	probesTotal     *prometheus.CounterVec
	probeDuration   *prometheus.HistogramVec
	workerStarts    *prometheus.CounterVec
	workerStops     *prometheus.CounterVec
	activeWorkers   prometheus.Gauge
	linksDispatched prometheus.Counter
	candidates      prometheus.Counter
	uniqueLinks     prometheus.Counter
	inputErrors     *prometheus.CounterVec
}

// NewCollector registers the run's metrics on a private registry, so
// several collectors can live in one process.
func NewCollector(logger *zap.Logger) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		logger:   logger.With(zap.String("component", "metrics")),
		registry: reg,
		probesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "probes_total",
				Help:      "Total number of link verdicts by outcome and reason",
			},
			[]string{"outcome", "reason"},
		),
		probeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "probe_duration_seconds",
				Help:      "Duration of link probes",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		workerStarts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "worker_starts_total",
				Help:      "Total number of worker starts",
			},
			[]string{"worker_id"},
		),
		workerStops: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "worker_stops_total",
				Help:      "Total number of worker stops",
			},
			[]string{"worker_id"},
		),
		activeWorkers: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_workers",
				Help:      "Number of currently active workers",
			},
		),
		linksDispatched: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "links_dispatched_total",
				Help:      "Total number of links handed to a worker",
			},
		),
		candidates: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "candidates_total",
				Help:      "Total number of candidate links extracted from the input",
			},
		),
		uniqueLinks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unique_links_total",
				Help:      "Total number of links left after filtering and deduplication",
			},
		),
		inputErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "input_errors_total",
				Help:      "Total number of inputs that could not be read",
			},
			[]string{"source"},
		),
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RecordVerdict(v domain.Verdict) {
	c.probesTotal.WithLabelValues(string(v.Outcome), string(v.Reason)).Inc()
	if v.Elapsed > 0 {
		c.probeDuration.WithLabelValues(string(v.Outcome)).Observe(v.Elapsed.Seconds())
	}
}

func (c *Collector) RecordWorkerStart(workerID string) {
	c.workerStarts.WithLabelValues(workerID).Inc()
	c.activeWorkers.Inc()
}

func (c *Collector) RecordWorkerStop(workerID string) {
	c.workerStops.WithLabelValues(workerID).Inc()
	c.activeWorkers.Dec()
}

func (c *Collector) RecordDispatch() {
	c.linksDispatched.Inc()
}

func (c *Collector) RecordCandidates(extracted, unique int) {
	c.candidates.Add(float64(extracted))
	c.uniqueLinks.Add(float64(unique))
}

func (c *Collector) RecordInputError(source string) {
	c.inputErrors.WithLabelValues(source).Inc()
}

// WriteTextfile writes every metric in the node exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

func registerHooks(lc fx.Lifecycle, cfg *config.Config, c *Collector) {
	if cfg.MetricsFile == "" {
		return
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := c.WriteTextfile(cfg.MetricsFile); err != nil {
				return err
			}
			c.logger.Debug("metrics written", zap.String("path", cfg.MetricsFile))
			return nil
		},
	})
}
