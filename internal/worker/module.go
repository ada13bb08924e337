package worker

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewPool),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, pool *Pool) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return pool.Stop(ctx)
		},
	})
}
