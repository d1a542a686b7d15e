package clog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// slogLogger 基于 slog 的 Logger 实现
type slogLogger struct {
	sl        *slog.Logger
	level     *slog.LevelVar
	namespace string
}

func newLogger(cfg *Config, o *options) Logger {
	var w io.Writer
	switch {
	case o.writer != nil:
		w = o.writer
	case cfg.Output == "stderr":
		w = os.Stderr
	default:
		w = os.Stdout
	}

	level := new(slog.LevelVar)
	level.Set(slog.Level(cfg.slogLevel() * 4)) // clog Level 与 slog.Level 步长对齐

	hopts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}

	l := &slogLogger{
		sl:        slog.New(h),
		level:     level,
		namespace: strings.Join(o.namespace, "."),
	}
	if l.namespace != "" {
		l.sl = l.sl.With(slog.String("namespace", l.namespace))
	}
	return l
}

func (l *slogLogger) log(level slog.Level, msg string, fields ...Field) {
	if !l.sl.Enabled(context.Background(), level) {
		return
	}
	l.sl.LogAttrs(context.Background(), level, msg, fields...)
}

func (l *slogLogger) Debug(msg string, fields ...Field) { l.log(slog.LevelDebug, msg, fields...) }
func (l *slogLogger) Info(msg string, fields ...Field)  { l.log(slog.LevelInfo, msg, fields...) }
func (l *slogLogger) Warn(msg string, fields ...Field)  { l.log(slog.LevelWarn, msg, fields...) }
func (l *slogLogger) Error(msg string, fields ...Field) { l.log(slog.LevelError, msg, fields...) }

func (l *slogLogger) With(fields ...Field) Logger {
	attrs := make([]any, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, f)
	}
	return &slogLogger{
		sl:        l.sl.With(attrs...),
		level:     l.level,
		namespace: l.namespace,
	}
}

func (l *slogLogger) WithNamespace(parts ...string) Logger {
	ns := l.namespace
	if joined := strings.Join(parts, "."); joined != "" {
		if ns == "" {
			ns = joined
		} else {
			ns = ns + "." + joined
		}
	}
	return &slogLogger{
		sl:        l.sl.With(slog.String("namespace", ns)),
		level:     l.level,
		namespace: ns,
	}
}

func (l *slogLogger) SetLevel(level Level) error {
	l.level.Set(slog.Level(level * 4))
	return nil
}
