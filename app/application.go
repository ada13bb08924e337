package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"md-link-check/internal/common"
	"md-link-check/internal/pipeline"
)

const (
	startTimeout = 30 * time.Second
	stopTimeout  = 30 * time.Second
)

type Application struct {
	app    *fx.App
	logger *zap.Logger
	runID  string
	runner *pipeline.Runner
}

func NewApplication(opts ...common.Option) *Application {
	options := common.Apply(opts...)

	runID := uuid.NewString()
	logger := options.Logger.With(zap.String("run_id", runID))

	app := &Application{
		logger: logger,
		runID:  runID,
	}

	// Build fx application
	app.app = fx.New(
		Modules(),

		// Provide base dependencies
		fx.Supply(options.Config, options.Streams),
		fx.Provide(
			func() *zap.Logger { return logger },
			func() common.Env { return common.Env(options.Env) },
		),

		// Configure fx
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: logger.Named("fx")}
			l.UseLogLevel(zap.DebugLevel)
			return l
		}),

		// Set timeouts
		fx.StopTimeout(stopTimeout),
		fx.StartTimeout(startTimeout),

		// Register lifecycle hooks
		fx.Invoke(registerHooks),

		fx.Populate(&app.runner),
	)

	return app
}

func (a *Application) RunID() string {
	return a.runID
}

// Err reports a failure to build the dependency graph, e.g. an invalid
// configuration.
func (a *Application) Err() error {
	return a.app.Err()
}

func (a *Application) Start(ctx context.Context) error {
	return a.app.Start(ctx)
}

func (a *Application) Stop(ctx context.Context) error {
	return a.app.Stop(ctx)
}

// Run starts the application, performs one check and stops again. The
// application is stopped even when ctx was cancelled.
func (a *Application) Run(ctx context.Context) (*pipeline.Summary, error) {
	if err := a.Err(); err != nil {
		return nil, err
	}

	startCtx, cancel := context.WithTimeout(ctx, a.app.StartTimeout())
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		return nil, fmt.Errorf("start application: %w", err)
	}

	summary, runErr := a.runner.Run(ctx)

	stopCtx, cancelStop := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancelStop()
	if err := a.Stop(stopCtx); err != nil {
		return summary, errors.Join(runErr, fmt.Errorf("stop application: %w", err))
	}

	return summary, runErr
}
