// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"tokenpath/internal/delivery/http/middleware"
	"tokenpath/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	WalletHandler  *handler.WalletHandler
	AuthMiddleware *middleware.AuthMiddleware
	SessionGuard   *middleware.SessionGuard
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	walletHandler  *handler.WalletHandler
	authMiddleware *middleware.AuthMiddleware
	sessionGuard   *middleware.SessionGuard
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		walletHandler:  params.WalletHandler,
		authMiddleware: params.AuthMiddleware,
		sessionGuard:   params.SessionGuard,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Page-level session guard; API routes pass straight through it.
	e.Use(r.sessionGuard.Guard)

	// Auth routes
	authGroup := e.Group("/api/auth")
	{
		authGroup.GET("/providers", r.authHandler.Providers)
		authGroup.POST("/line", r.authHandler.LoginLine)
		authGroup.POST("/guest", r.authHandler.LoginGuest)
		authGroup.POST("/:provider", r.authHandler.LoginProvider)
		authGroup.DELETE("/:provider", r.authHandler.Logout)
	}

	// Session-bound routes
	meGroup := e.Group("/api/auth/me")
	meGroup.Use(r.authMiddleware.Authenticate)
	{
		meGroup.GET("", r.authHandler.Me)
		meGroup.GET("/balance", r.authHandler.Balance)
	}

	walletGroup := e.Group("/api/wallet")
	walletGroup.Use(r.authMiddleware.Authenticate)
	{
		walletGroup.POST("/create", r.walletHandler.Create)
		walletGroup.GET("/qrcode", r.walletHandler.QRCode)
	}
}
