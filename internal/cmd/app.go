package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planboard/internal/api"
	"github.com/felixgeelhaar/planboard/internal/config"
	"github.com/felixgeelhaar/planboard/internal/gateway"
	"github.com/felixgeelhaar/planboard/internal/log"
	"github.com/felixgeelhaar/planboard/internal/metrics"
	"github.com/felixgeelhaar/planboard/internal/refresh"
	"github.com/felixgeelhaar/planboard/internal/schedule"
	"github.com/felixgeelhaar/planboard/internal/telemetry"
	"github.com/felixgeelhaar/planboard/internal/ux"
	"github.com/felixgeelhaar/planboard/internal/version"
)

// app holds what every command shares once the config is loaded.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	metrics *metrics.Metrics
	tokens  *refresh.Tokens
	client  *api.Client

	cleanup []func()
}

var current *app

// annotationInteractive marks commands that take over the terminal
const annotationInteractive = "interactive"

// setupApp loads the config and builds the logger, tracer and client.
func setupApp(cmd *cobra.Command, args []string) error {
	path, explicit := cfgFile, cfgFile != ""
	if !explicit {
		path = ux.NewPathDefaults().ConfigFile()
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	a := &app{cfg: cfg, tokens: &refresh.Tokens{}}

	logger, closeLog, err := newLogger(cfg, cmd)
	if err != nil {
		return err
	}
	a.logger = logger
	a.cleanup = append(a.cleanup, closeLog)

	a.cleanup = append(a.cleanup, setupTelemetry(cmd.Context(), cfg, logger))

	ctx, span := telemetry.StartCommandSpan(cmd.Context(), cmd.Name())
	cmd.SetContext(ctx)
	a.cleanup = append(a.cleanup, func() { span.End() })

	a.client = newClient(cfg, nil, logger)
	current = a
	return nil
}

func teardownApp() {
	if current == nil {
		return
	}
	for i := len(current.cleanup) - 1; i >= 0; i-- {
		current.cleanup[i]()
	}
	current = nil
}

// newLogger logs to stderr, except for the interactive board which owns
// the terminal and logs to log.file or nowhere.
func newLogger(cfg *config.Config, cmd *cobra.Command) (*log.Logger, func(), error) {
	info := version.GetInfo()
	lc := log.Config{
		Level:          log.ParseLevel(cfg.Log.Level),
		Format:         log.ParseFormat(cfg.Log.Format),
		Output:         log.NewOutput(cmd.ErrOrStderr()),
		ServiceName:    "planboard",
		ServiceVersion: info.Version,
	}
	cleanup := func() {}

	switch {
	case cfg.Log.File != "":
		out, closer, err := log.OutputFile(cfg.Log.File)
		if err != nil {
			return nil, nil, NewErrorWithSuggestions("Failed to open log file", err,
				"Check log.file in your config, or leave it empty")
		}
		lc.Output = out
		cleanup = func() { _ = closer.Close() }
	case cmd.Annotations[annotationInteractive] == "true":
		lc.Output = log.OutputDiscard()
	}

	return log.New(lc), cleanup, nil
}

func setupTelemetry(ctx context.Context, cfg *config.Config, logger *log.Logger) func() {
	if !cfg.Telemetry.Enabled {
		return func() {}
	}

	tc := telemetry.DefaultConfig()
	tc.ServiceVersion = version.GetInfo().Version
	tc.Enabled = true
	tc.Endpoint = cfg.Telemetry.Endpoint
	tc.SampleRate = cfg.Telemetry.SampleRate

	shutdown, err := telemetry.InitProvider(ctx, tc)
	if err != nil {
		logger.WithError(err).Warn("Failed to initialize telemetry")
		return func() {}
	}

	logger.Debug("Telemetry enabled",
		"endpoint", tc.Endpoint,
		"sample_rate", tc.SampleRate,
	)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Failed to flush telemetry")
		}
	}
}

func newClient(cfg *config.Config, m *metrics.Metrics, logger *log.Logger) *api.Client {
	return api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryDelay),
		api.WithMetrics(m),
		api.WithLogger(logger),
		api.WithUserAgent(version.GetInfo().UserAgent()),
	)
}

func (a *app) sync() *gateway.Sync {
	return gateway.NewSync(a.client, a.tokens, a.metrics, a.logger)
}

func (a *app) requestor() *schedule.Requestor {
	return schedule.NewRequestor(a.client, a.tokens, a.metrics, a.logger)
}

// formatter writes command results in the --format selected by the user.
func formatter(w io.Writer) (ux.Formatter, error) {
	if w == nil {
		w = os.Stdout
	}
	f, err := ux.NewFormatter(outFormat, &ux.FormatterOptions{Writer: w})
	if err != nil {
		return nil, NewErrorWithSuggestions(fmt.Sprintf("Invalid --format %q", outFormat), err,
			"Use one of: text, json, yaml")
	}
	return f, nil
}
