// Package logger builds configured log/slog loggers with consistent
// output formats and shared attribute helpers.
//
// Defaults are production-safe (JSON, info level); WithService flips to
// text/debug outside production so local runs stay readable.
//
//	log := logger.New(logger.WithService("polarbridge", cfg.Environment))
//	log.Info("started", logger.Component("httpserver"))
package logger
