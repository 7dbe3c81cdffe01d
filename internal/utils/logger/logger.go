package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sppgdatasystem/bgn/internal/utils/logger/handlers/slogpretty"
	"golang.org/x/exp/slog"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type options struct {
	level *slog.Level
}

type Option func(*options)

// WithLevel переопределяет уровень окружения: debug, info, warn или error.
// Неизвестное значение игнорируется.
func WithLevel(level string) Option {
	return func(o *options) {
		if l, ok := ParseLevel(level); ok {
			o.level = &l
		}
	}
}

// New создает логгер для окружения: local - цветной вывод, dev - JSON с debug,
// prod - JSON с info.
func New(env string, opts ...Option) *slog.Logger {
	return NewWithWriter(env, os.Stdout, opts...)
}

func NewWithWriter(env string, w io.Writer, opts ...Option) *slog.Logger {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var log *slog.Logger
	switch env {
	case envLocal, "":
		log = setupPrettySlogTo(w, levelOr(o.level, slog.LevelDebug))
	case envDev:
		log = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelOr(o.level, slog.LevelDebug)}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelOr(o.level, slog.LevelInfo)}))
	default:
		log = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelOr(o.level, slog.LevelInfo)}))
	}
	return log
}

func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func setupPrettySlog() *slog.Logger {
	return setupPrettySlogTo(os.Stdout, slog.LevelDebug)
}

func setupPrettySlogTo(w io.Writer, level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}
	return slog.New(opts.NewPrettyHandler(w))
}

func levelOr(l *slog.Level, def slog.Level) slog.Level {
	if l == nil {
		return def
	}
	return *l
}
