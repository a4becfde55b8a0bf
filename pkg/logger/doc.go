// Package logger provides structured logging with context extraction and
// optional Sentry integration on top of log/slog.
//
// # Basic Usage
//
// Create a logger with context extractors. Extractors run on every log call,
// so request-scoped values such as an authentication attempt ID are picked up
// automatically:
//
//	type attemptKey struct{}
//
//	log := logger.New(logger.Config{Level: "debug"},
//		logger.StringExtractor(attemptKey{}, "attempt_id"),
//	)
//
//	ctx := context.WithValue(ctx, attemptKey{}, "01J9Z...")
//	log.InfoContext(ctx, "redirecting to provider")
//	// {"level":"INFO","msg":"redirecting to provider","attempt_id":"01J9Z..."}
//
// Config is env-tagged (LOG_LEVEL, LOG_FORMAT) and can be loaded with
// github.com/caarlos0/env. Format "text" selects the text handler; JSON is the
// default.
//
// # Sentry Integration
//
//	log := logger.NewWithSentry(cfg, logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn,
//	})
//
// Errors create Sentry issues and warnings are stored as Sentry logs. Without a
// DSN, or when initialization fails, the logger writes to stdout only.
//
// # Defaults
//
// NewNope returns a logger that discards everything; components use it when
// no logger is configured.
package logger
