// Package middleware contains the echo middleware shared by the API and
// worker servers.
package middleware

import (
	"log/slog"

	deliverycontext "tokenpath/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware tags every request with a request id and a
// request-scoped logger carrying it.
type RequestIDMiddleware struct {
	logger *slog.Logger
}

// NewRequestIDMiddleware creates a new Request ID middleware
func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{logger: logger}
}

// Process honors a client-supplied X-Request-Id, minting one otherwise, and
// echoes it back on the response. The id and a logger tagged with it are
// placed on both the echo context and the request context so usecases and
// the event publisher can correlate their log lines.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		reqLogger := m.logger.With(slog.String("request_id", requestID))

		ctx := deliverycontext.WithRequestID(c.Request().Context(), requestID)
		ctx = deliverycontext.WithLogger(ctx, reqLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
