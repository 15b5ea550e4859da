// Package logging provides structured logging for prometools.
//
// The package wraps log/slog with JSON, text and console formats and
// attaches run fields (run_id, trigger, config_path) carried in a context.
// Logs go to stderr by default so the render command can write exposition
// text to stdout.
//
//	logger, err := logging.New(logging.FromConfig(cfg.Logging, nil))
//	ctx = logging.WithRunID(ctx, uuid.NewString())
//	logger.InfoContext(ctx, "Rendered metrics", "bytes", n)
package logging
