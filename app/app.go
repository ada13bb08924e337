package app

import (
	"go.uber.org/fx"

	"md-link-check/internal/checker"
	"md-link-check/internal/config"
	"md-link-check/internal/exporter"
	"md-link-check/internal/extract"
	"md-link-check/internal/link"
	"md-link-check/internal/metrics"
	"md-link-check/internal/pipeline"
	"md-link-check/internal/report"
	"md-link-check/internal/source"
	"md-link-check/internal/worker"
)

// Modules is the full dependency graph of a run, without the logger,
// configuration and streams which are supplied by the caller.
func Modules() fx.Option {
	return fx.Options(
		config.Module,
		metrics.Module,
		source.Module,
		extract.Module,
		link.Module,
		checker.Module,
		worker.Module,
		report.Module,
		exporter.Module,
		pipeline.Module,
	)
}
