package exporter

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"md-link-check/internal/config"
	"md-link-check/internal/domain"
	"md-link-check/internal/exporter/uptimekuma"
)

// Module exports the exporter module
var Module = fx.Options(
	fx.Provide(NewManager),
)

type Manager struct {
	exporters []namedExporter
	logger    *zap.Logger
}

type namedExporter struct {
	name string
	domain.Exporter
}

func NewManager(cfg *config.Config, logger *zap.Logger) (*Manager, error) {
	manager := &Manager{
		logger: logger.With(zap.String("component", "exporter")),
	}

	for _, expCfg := range cfg.Exporters {
		exporter, err := createExporter(&expCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create exporter %s: %w", expCfg.Type, err)
		}
		manager.Add(expCfg.Type, exporter)
	}

	return manager, nil
}

func (m *Manager) Add(name string, exporter domain.Exporter) {
	m.exporters = append(m.exporters, namedExporter{name: name, Exporter: exporter})
}

func (m *Manager) Len() int {
	return len(m.exporters)
}

// Export hands the summary to every exporter. Failures are logged and do
// not affect the run; the number of failed exporters is returned.
func (m *Manager) Export(ctx context.Context, summary domain.RunSummary) int {
	failed := 0
	for _, exporter := range m.exporters {
		if err := exporter.Export(ctx, summary); err != nil {
			failed++
			m.logger.Error("failed to export run summary",
				zap.String("exporter", exporter.name),
				zap.Int("invalid", summary.Invalid),
				zap.Error(err),
			)
		}
	}
	return failed
}

func createExporter(cfg *config.ExporterConfig) (domain.Exporter, error) {
	switch cfg.Type {
	case config.ExporterTypeUptimeKuma:
		return uptimekuma.New(cfg.Raw)
	default:
		return nil, fmt.Errorf("unknown exporter type: %s", cfg.Type)
	}
}
