// Package logger provides a small slog factory with functional options and
// attribute helpers shared across the pipeline packages.
//
// Production defaults emit JSON at info level; tests and local runs can
// switch to text output:
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatJSON),
//	    logger.WithAttr(slog.String("service", "pushd")),
//	)
package logger
