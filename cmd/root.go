package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"md-link-check/app"
	"md-link-check/internal/common"
	"md-link-check/internal/config"
)

type rootOptions struct {
	configPath   string
	pattern      string
	listFile     string
	outputFile   string
	verbose      bool
	concurrency  int
	timeout      time.Duration
	maxRedirects int
	extensions   []string
	linkRegexp   string
	trimChars    string
	showReason   bool
	format       string
	rate         float64
	userAgent    string
	gracePeriod  time.Duration
	metricsFile  string
}

func newRootCmd(streams common.Streams) *cobra.Command {
	opts := &rootOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "md-link-check [paths...]",
		Short: "Find broken links in markdown documents",
		Long: "md-link-check extracts http(s) links from the given files and directories " +
			"(the current directory by default), checks every distinct link once and " +
			"prints the ones that are broken. Use - to read from standard input.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, opts, streams)
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	})

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "JSON config file (default $CONFIG_PATH)")
	f.StringVar(&opts.pattern, "pattern", "", "only check links containing this substring")
	f.StringVar(&opts.listFile, "file", "", "check the links listed in this file, one per line")
	f.StringVarP(&opts.outputFile, "output-file", "o", "", "write invalid links to this file instead of stdout")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "print every verdict and debug logs to stderr")
	f.IntVarP(&opts.concurrency, "concurrency", "c", defaults.Workers.Count, "number of concurrent probes")
	f.DurationVar(&opts.timeout, "timeout", defaults.Workers.Timeout.Std(), "timeout per request")
	f.IntVar(&opts.maxRedirects, "max-redirects", defaults.Workers.MaxRedirects, "redirects to follow before a link is invalid")
	f.StringSliceVar(&opts.extensions, "ext", defaults.Extensions, "file extensions scanned in directories")
	f.StringVar(&opts.linkRegexp, "link-regexp", defaults.LinkRegexp, "regular expression matching links, the first group is used if present")
	f.StringVar(&opts.trimChars, "trim-chars", defaults.TrimChars, "trailing characters stripped from matches")
	f.BoolVar(&opts.showReason, "show-reason", false, "append the reason to every invalid link")
	f.StringVar(&opts.format, "format", defaults.Format, "output format: text or json")
	f.Float64Var(&opts.rate, "rate", 0, "requests per second per host, 0 for no limit")
	f.StringVar(&opts.userAgent, "user-agent", defaults.Workers.UserAgent, "User-Agent header sent with every request")
	f.DurationVar(&opts.gracePeriod, "grace-period", defaults.Workers.GracePeriod.Std(), "time in-flight probes get after an interrupt")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")

	return cmd
}

func runRoot(cmd *cobra.Command, args []string, opts *rootOptions, streams common.Streams) error {
	cfg, err := config.NewConfig(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(cmd.Flags(), cfg)
	if len(args) > 0 {
		cfg.Inputs = args
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	env := os.Getenv("APP_ENV")
	logger := newLogger(streams.Err, cfg.Verbose, env)
	defer func() { _ = logger.Sync() }()

	application := app.NewApplication(
		common.WithLogger(logger),
		common.WithConfig(cfg),
		common.WithEnv(env),
		common.WithStreams(streams),
	)

	_, err = application.Run(cmd.Context())
	return err
}

// apply copies the flags set on the command line over cfg, so a config
// file only loses to flags the user actually passed.
func (o *rootOptions) apply(flags interface{ Changed(string) bool }, cfg *config.Config) {
	set := func(name string, fn func()) {
		if flags.Changed(name) {
			fn()
		}
	}

	set("pattern", func() { cfg.Filter = o.pattern })
	set("file", func() { cfg.ListFile = o.listFile })
	set("output-file", func() { cfg.Output = o.outputFile })
	set("verbose", func() { cfg.Verbose = o.verbose })
	set("concurrency", func() { cfg.Workers.Count = o.concurrency })
	set("timeout", func() { cfg.Workers.Timeout = config.Duration(o.timeout) })
	set("max-redirects", func() { cfg.Workers.MaxRedirects = o.maxRedirects })
	set("ext", func() { cfg.Extensions = o.extensions })
	set("link-regexp", func() { cfg.LinkRegexp = o.linkRegexp })
	set("trim-chars", func() { cfg.TrimChars = o.trimChars })
	set("show-reason", func() { cfg.ShowReason = o.showReason })
	set("format", func() { cfg.Format = o.format })
	set("rate", func() { cfg.Workers.RatePerHost = o.rate })
	set("user-agent", func() { cfg.Workers.UserAgent = o.userAgent })
	set("grace-period", func() { cfg.Workers.GracePeriod = config.Duration(o.gracePeriod) })
	set("metrics-file", func() { cfg.MetricsFile = o.metricsFile })
}

// newLogger writes human readable logs to w, or JSON in production.
func newLogger(w io.Writer, verbose bool, env string) *zap.Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	if env == "production" {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core)
}
