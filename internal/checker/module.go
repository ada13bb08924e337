package checker

import (
	"context"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"md-link-check/internal/config"
	"md-link-check/internal/domain"
)

// Module exports the checker module
var Module = fx.Options(
	fx.Provide(ProvideHTTPClient),
	fx.Provide(ProvideLimiter),
	fx.Provide(NewChecker),
)

// Checker probes a single link and always returns a verdict for it.
type Checker interface {
	Check(ctx context.Context, link domain.Link) domain.Verdict
}

// ProvideHTTPClient builds the run's HTTP client and releases its idle
// connections when the application stops.
func ProvideHTTPClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*http.Client, error) {
	client, err := NewHTTPClient(clientConfigFrom(cfg))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Debug("closing idle http connections")
			client.CloseIdleConnections()
			return nil
		},
	})

	return client, nil
}

func ProvideLimiter(cfg *config.Config) Limiter {
	return NewLimiter(cfg.Workers.RatePerHost)
}

// NewChecker creates a new Checker instance
func NewChecker(cfg *config.Config, client *http.Client, limiter Limiter, logger *zap.Logger) Checker {
	return New(client, limiter, Options{
		Timeout:   cfg.Workers.Timeout.Std(),
		UserAgent: cfg.Workers.UserAgent,
	}, logger)
}
