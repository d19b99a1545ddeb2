package main

import (
	"context"
	"log/slog"
	"os"

	"tokenpath/config"
	"tokenpath/internal/delivery"
	"tokenpath/internal/delivery/worker"
	"tokenpath/internal/delivery/worker/handler"
	"tokenpath/internal/domain/repository"
	"tokenpath/internal/domain/service"
	"tokenpath/internal/infra/engine"
	logs "tokenpath/internal/infra/log"
	"tokenpath/internal/infra/qrcode"
	"tokenpath/internal/infra/recordstore"
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
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
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
			newWalletRepository,
		),
	)
}

func newWalletRepository(client *recordstore.Client, cfg *config.Config) repository.WalletRepository {
	return recordstore.NewWalletRepository(client, cfg.RecordStore.AvailabilityTTL)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			engine.NewClient,
			newQRCodeService,
			// The worker provisions inline; events it publishes would loop
			// back to itself.
			newNoopPublisher,
		),
	)
}

func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

// newNoopPublisher gives the wallet service a publisher that never
// republishes, keeping provisioning synchronous inside the worker. It
// reports ErrNoTransport so any publish attempt falls back to the inline
// engine call instead of looping an event back to this process.
func newNoopPublisher(logger *slog.Logger) service.EventPublisher {
	return noopPublisher{logger: logger}
}

type noopPublisher struct {
	logger *slog.Logger
}

func (p noopPublisher) PublishWalletProvisionEvent(_ context.Context, event *service.WalletProvisionEvent) error {
	p.logger.Debug("Skipping event publish inside worker",
		slog.String("event_id", event.EventID),
	)

	return service.ErrNoTransport
}

func (noopPublisher) Close() error { return nil }

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewWalletService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
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
