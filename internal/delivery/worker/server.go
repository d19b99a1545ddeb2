// Package worker provides the wallet-provisioning push worker. It exposes a
// small HTTP surface that the pub/sub push subscription delivers events to.
package worker

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"tokenpath/config"
	"tokenpath/internal/delivery"
	"tokenpath/internal/delivery/middleware"
	"tokenpath/internal/delivery/worker/handler"
	"tokenpath/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type workerServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for the worker server
type ServerParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	Logger      *slog.Logger
	PushHandler *handler.PushHandler
}

// NewServer creates the worker HTTP server. Recover runs first so a panic
// inside provisioning still produces a 5xx the subscription will retry;
// request-id runs before the access logger so every line carries the id.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(middleware.NewRequestIDMiddleware(params.Logger).Process)
	e.Use(middleware.NewLoggerMiddleware(params.Logger, params.Cfg).Handle)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.POST("/push", params.PushHandler.HandlePush)

	srv := &workerServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: e,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// Serve starts the worker HTTP server
func (s *workerServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting provisioning worker", slog.String("hostPort", hostPort))
	if err := s.server.Start(hostPort); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *workerServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down provisioning worker")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
