package main

import (
	"context"
	"log/slog"
	"os"

	"tokenpath/config"
	"tokenpath/internal/delivery"
	"tokenpath/internal/delivery/http"
	"tokenpath/internal/delivery/http/middleware"
	"tokenpath/internal/delivery/http/router/handler"
	deliverymw "tokenpath/internal/delivery/middleware"
	"tokenpath/internal/domain/repository"
	"tokenpath/internal/domain/service"
	"tokenpath/internal/infra/auth"
	"tokenpath/internal/infra/auth/line"
	"tokenpath/internal/infra/auth/session"
	"tokenpath/internal/infra/auth/telegram"
	"tokenpath/internal/infra/engine"
	logs "tokenpath/internal/infra/log"
	"tokenpath/internal/infra/pubsub"
	"tokenpath/internal/infra/qrcode"
	"tokenpath/internal/infra/recordstore"
	"tokenpath/internal/usecase"
	"tokenpath/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			initializeProviders,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		recordstore.NewClient,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			recordstore.NewAccountRepository,
			newWalletRepository,
		),
	)
}

// newWalletRepository creates a wallet repository with the configured
// availability cache TTL
func newWalletRepository(client *recordstore.Client, cfg *config.Config) repository.WalletRepository {
	return recordstore.NewWalletRepository(client, cfg.RecordStore.AvailabilityTTL)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			session.NewJWTService,
			newProviderRegistry,
			newWalletEngine,
			newQRCodeService,
		),
		pubsub.Module,
	)
}

// newProviderRegistry registers the provider adapters. Registration order
// doubles as the default-provider fallback order.
func newProviderRegistry(cfg *config.Config, logger *slog.Logger) *auth.Registry {
	return auth.NewRegistry(
		line.NewProvider(cfg, logger),
		telegram.NewProvider(cfg, logger),
	)
}

// newWalletEngine creates the wallet engine client with dependency injection
func newWalletEngine(cfg *config.Config) (service.WalletEngine, error) {
	if cfg.Engine == nil || cfg.Engine.URL == "" {
		// Wallet provisioning degrades gracefully without an engine
		return engine.NewNoopEngine(), nil
	}

	return engine.NewClient(cfg)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewWalletService,
			impl.NewAuthService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewSessionGuard,
			deliverymw.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewWalletHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// initializeProviders eagerly initializes the provider adapters so the first
// login does not pay the setup cost.
func initializeProviders(ctx context.Context, authUC usecase.AuthUsecase) {
	authUC.Initialize(ctx)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
