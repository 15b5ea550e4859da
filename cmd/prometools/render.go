package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"mercator-hq/prometools/pkg/cli"
	"mercator-hq/prometools/pkg/config"
	"mercator-hq/prometools/pkg/report"
	"mercator-hq/prometools/pkg/telemetry/logging"
	"mercator-hq/prometools/pkg/telemetry/metrics"
	"mercator-hq/prometools/pkg/telemetry/tracing"
)

type renderFlags struct {
	openMetrics bool
	watch       bool
	schedule    string
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the configured metrics",
		Long: `Build a registry from the configuration, replay the fixture requests
into it and write the exposition text to stdout.

With --schedule or --watch the command keeps running until interrupted and
renders again on every cron tick or configuration change.

Examples:
  # Render once with the built-in defaults
  prometools render

  # Render in OpenMetrics format
  prometools render --config prometools.yaml --open-metrics

  # Re-render every minute and on every config edit
  prometools render --config prometools.yaml --schedule "* * * * *" --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.openMetrics, "open-metrics", false, "render in OpenMetrics format")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "render again when the config file changes")
	cmd.Flags().StringVar(&flags.schedule, "schedule", "", "cron expression to render on")
	return cmd
}

// applyFlags copies explicitly set flags over cfg.
func (f *renderFlags) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("open-metrics") {
		cfg.Metrics.OpenMetrics = f.openMetrics
	}
	if cmd.Flags().Changed("watch") {
		cfg.Report.Watch = f.watch
	}
	if cmd.Flags().Changed("schedule") {
		cfg.Report.Schedule = f.schedule
	}
}

func runRender(cmd *cobra.Command, root *rootFlags, flags *renderFlags) error {
	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfigWithEnvOverrides(root.cfgFile)
	if err != nil {
		return cli.NewCommandError("render", err)
	}
	flags.applyFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return cli.NewCommandError("render", err)
	}
	if cfg.Report.Watch && root.cfgFile == "" {
		return cli.NewConfigError("report.watch", "watching requires --config")
	}
	config.SetConfig(cfg)

	// Initialize logging
	logCfg := logging.FromConfig(cfg.Logging, cmd.ErrOrStderr())
	if root.verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return cli.NewConfigError("logging", err.Error())
	}
	if root.cfgFile != "" {
		ctx = logging.WithConfigPath(ctx, root.cfgFile)
	}

	tracer, err := tracing.New(&cfg.Tracing, cfg.BuildInfo.Version)
	if err != nil {
		return cli.NewCommandError("render", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	r := newRenderer(cmd.OutOrStdout(), logger, tracer)
	r.reconfigure(cfg)

	scheduler := report.NewScheduler(cfg.Report.Schedule, r.run, logger.Slog())
	if err := scheduler.Run(ctx, report.TriggerOnce); err != nil {
		return cli.NewCommandError("render", err)
	}

	if cfg.Report.Schedule == "" && !cfg.Report.Watch {
		return nil
	}

	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("render", err)
	}
	defer scheduler.Stop()

	if cfg.Report.Watch {
		config.Subscribe(func(next *config.Config) {
			flags.applyFlags(cmd, next)
			r.reconfigure(next)
			_ = scheduler.Run(ctx, report.TriggerWatch)
		})

		watcher, err := config.NewFileWatcher(&config.FileWatcherConfig{
			Path:             root.cfgFile,
			DebounceInterval: cfg.Report.WatchDebounce,
		}, logger.Slog())
		if err != nil {
			return cli.NewCommandError("render", err)
		}
		defer func() { _ = watcher.Stop() }()

		go func() {
			err := watcher.Watch(ctx, func() error {
				return config.ReloadConfig(root.cfgFile)
			})
			if err != nil {
				logger.ErrorContext(ctx, "Config watcher stopped", "error", err)
			}
		}()
	}

	logger.InfoContext(ctx, "Waiting for further renders",
		"schedule", cfg.Report.Schedule,
		"watch", cfg.Report.Watch,
	)
	<-ctx.Done()
	return nil
}

// renderer owns the collector of the current configuration. Runs and
// reconfiguration are serialized.
type renderer struct {
	mu        sync.Mutex
	out       io.Writer
	logger    *logging.Logger
	tracer    *tracing.Tracer
	cfg       *config.Config
	collector *metrics.Collector
}

func newRenderer(out io.Writer, logger *logging.Logger, tracer *tracing.Tracer) *renderer {
	return &renderer{out: out, logger: logger, tracer: tracer}
}

// reconfigure replaces the collector with one built from cfg.
func (r *renderer) reconfigure(cfg *config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cfg = cfg
	r.collector = metrics.NewCollector(&cfg.Metrics, cfg.BuildInfo, nil, r.logger.Slog())
}

// run replays the fixtures into a cleared collector and renders it.
func (r *renderer) run(ctx context.Context) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, span := r.tracer.Start(tracing.ExtractEnv(ctx), "prometools.render")
	defer func() {
		tracing.SetStatus(span, err)
		span.End()
	}()
	tracing.SetRunAttributes(span, logging.GetRunID(ctx), logging.GetTrigger(ctx))

	r.collector.Reset()
	r.collector.Replay(r.cfg.Fixtures)

	n, err := r.collector.Render(r.out, r.cfg.Metrics.OpenMetrics)
	tracing.SetRenderAttributes(span, len(r.cfg.Fixtures), r.cfg.Metrics.OpenMetrics, n)
	if err != nil {
		return fmt.Errorf("failed to render metrics: %w", err)
	}

	r.logger.InfoContext(ctx, "Rendered metrics",
		"bytes", n,
		"open_metrics", r.cfg.Metrics.OpenMetrics,
		"trace_id", tracing.TraceID(ctx),
	)
	return nil
}
