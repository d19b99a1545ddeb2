package middleware

import (
	"context"
	"log/slog"
	"time"

	"tokenpath/config"
	deliverycontext "tokenpath/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// LoggerMiddleware writes one access-log line per request. It is active
// only in debug mode; the worker uses it instead of slog-echo to keep the
// push endpoint's log volume down.
type LoggerMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewLoggerMiddleware creates a new logger middleware
func NewLoggerMiddleware(logger *slog.Logger, config *config.Config) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger,
		debug:  config.Env.Debug,
	}
}

// Handle processes request logging
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.debug {
			return next(c)
		}

		start := time.Now()
		err := next(c)
		m.logRequest(c, start, err)

		return err
	}
}

func (m *LoggerMiddleware) logRequest(c echo.Context, start time.Time, err error) {
	req := c.Request()
	res := c.Response()

	fields := []slog.Attr{
		slog.String("request_id", deliverycontext.GetRequestID(c)),
		slog.String("method", req.Method),
		slog.String("uri", req.URL.Path),
		slog.Int("status", res.Status),
		slog.Duration("latency", time.Since(start)),
		slog.String("remote_ip", c.RealIP()),
		slog.String("user_agent", req.UserAgent()),
	}

	if req.URL.RawQuery != "" {
		fields = append(fields, slog.String("query", req.URL.RawQuery))
	}

	if err != nil {
		fields = append(fields, slog.Any("error", err))
	}

	level := slog.LevelInfo
	switch {
	case res.Status >= 500:
		level = slog.LevelError
	case res.Status >= 400:
		level = slog.LevelWarn
	}

	m.logger.LogAttrs(context.Background(), level, "HTTP Request", fields...)
}
