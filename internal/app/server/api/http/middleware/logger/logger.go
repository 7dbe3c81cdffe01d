package logger

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Logger пишет в лог каждый запрос к /exec и /healthz
type Logger struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Logger {
	return &Logger{
		log: log.With(slog.String("component", "http_logger")),
	}
}

// Middleware логирует запрос после обработки. Ключ API в лог не попадает.
func (l *Logger) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		method := ctx.Method()
		path := ctx.URL().Path
		action := ctx.Query("action")
		sheet := ctx.Query("sheet")
		remoteAddr := ctx.RemoteAddr()

		next(ctx)

		attrs := []any{
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", ctx.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", remoteAddr),
		}
		// у POST действие лежит в теле, поэтому здесь оно пустое
		if action != "" {
			attrs = append(attrs, slog.String("action", action))
		}
		if sheet != "" {
			attrs = append(attrs, slog.String("sheet", sheet))
		}
		l.log.Info("HTTP request", attrs...)
	}
}
