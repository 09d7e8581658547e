package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/agilechain/chainsync/internal/config"
)

var (
	logLevel     = new(slog.LevelVar)
	levelFromEnv bool
)

// SetupLogging installs the default JSON logger on stderr. fromEnv pins the level so the
// configuration file cannot override it.
func SetupLogging(level slog.Level, fromEnv bool) {
	logLevel.Set(level)
	levelFromEnv = fromEnv
	slog.SetDefault(newLogger(os.Stderr))
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(&traceHandler{
		Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}),
	})
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// configureLogging applies the logging section of the configuration. When a log file is
// configured, records are written to stderr and to the rotating file; the returned closer
// releases it.
func configureLogging(lc config.LoggingConfig) io.Closer {
	if lc.Level != "" && !levelFromEnv {
		var level slog.Level
		if err := level.UnmarshalText([]byte(lc.Level)); err == nil {
			logLevel.Set(level)
		}
	}

	if lc.File == "" {
		return closerFunc(func() error { return nil })
	}

	file := &lumberjack.Logger{
		Filename:   lc.File,
		MaxSize:    lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAgeDays,
		Compress:   true,
	}
	slog.SetDefault(newLogger(io.MultiWriter(os.Stderr, file)))
	slog.Debug("Logging to file", "path", lc.File)
	return file
}

// traceHandler wraps an slog.Handler to automatically inject OpenTelemetry
// trace_id and span_id into every log record, enabling log-trace correlation.
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		r.AddAttrs(
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}
