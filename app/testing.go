package app

import (
	"context"
	"testing"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"md-link-check/internal/common"
	"md-link-check/internal/pipeline"
)

// TestApplication provides testing functionality for the application
type TestApplication struct {
	tb       testing.TB
	testApp  *fxtest.App
	options  []fx.Option
	settings *common.ServiceOptions
	runner   *pipeline.Runner
}

func NewTestApplication(tb testing.TB, opts ...common.Option) *TestApplication {
	settings := common.Apply(append([]common.Option{common.WithLogger(zap.NewNop())}, opts...)...)

	return &TestApplication{
		tb:       tb,
		settings: settings,
		options:  []fx.Option{},
	}
}

// WithOption adds an fx option, typically an fx.Decorate replacing one of
// the real components.
func (ta *TestApplication) WithOption(opt fx.Option) *TestApplication {
	ta.options = append(ta.options, opt)
	return ta
}

func (ta *TestApplication) Start(ctx context.Context) error {
	var testOptions []fx.Option

	// Add base options
	testOptions = append(testOptions,
		Modules(),
		fx.Supply(ta.settings.Config, ta.settings.Streams),
		fx.Provide(
			func() *zap.Logger { return ta.settings.Logger },
			func() common.Env { return common.Env("test") },
		),
		fx.Invoke(registerHooks),
		fx.Populate(&ta.runner),
	)

	// Add user-provided options
	testOptions = append(testOptions, ta.options...)

	// Configure test app
	testOptions = append(testOptions,
		fx.StartTimeout(10*time.Second),
		fx.StopTimeout(10*time.Second),
	)

	// Create test app
	ta.testApp = fxtest.New(
		ta.tb,
		testOptions...,
	)

	return ta.testApp.Start(ctx)
}

// Run performs one check on a started application.
func (ta *TestApplication) Run(ctx context.Context) (*pipeline.Summary, error) {
	return ta.runner.Run(ctx)
}

func (ta *TestApplication) Stop(ctx context.Context) error {
	if ta.testApp != nil {
		return ta.testApp.Stop(ctx)
	}
	return nil
}
