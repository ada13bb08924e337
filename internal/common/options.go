package common

import (
	"io"
	"os"

	"go.uber.org/zap"
	"md-link-check/internal/config"
)

// Streams are the process streams a run reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the streams of the current process.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// ServiceOptions defines common options for service constructors
type ServiceOptions struct {
	Logger  *zap.Logger
	Config  *config.Config
	Env     string
	Streams Streams
}

// Option defines a service option modifier
type Option func(*ServiceOptions)

func WithLogger(logger *zap.Logger) Option {
	return func(o *ServiceOptions) {
		o.Logger = logger
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(o *ServiceOptions) {
		o.Config = cfg
	}
}

func WithEnv(env string) Option {
	return func(o *ServiceOptions) {
		o.Env = env
	}
}

func WithStreams(streams Streams) Option {
	return func(o *ServiceOptions) {
		o.Streams = streams
	}
}

// Apply builds ServiceOptions from opts, filling in what was left unset.
func Apply(opts ...Option) *ServiceOptions {
	options := &ServiceOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.Config == nil {
		options.Config = config.Default()
	}

	std := StdStreams()
	if options.Streams.In == nil {
		options.Streams.In = std.In
	}
	if options.Streams.Out == nil {
		options.Streams.Out = std.Out
	}
	if options.Streams.Err == nil {
		options.Streams.Err = std.Err
	}
	return options
}

// Env names the environment the process runs in, e.g. "production".
type Env string
