package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"md-link-check/internal/common"
	"md-link-check/internal/config"
)

type hookParams struct {
	fx.In

	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Env       common.Env
}

func registerHooks(p hookParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Debug("starting application",
				zap.String("env", string(p.Env)),
				zap.Int("workers", p.Config.Workers.Count),
				zap.Duration("timeout", p.Config.Workers.Timeout.Std()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Debug("stopping application")
			return nil
		},
	})
}
