// Package pubsub carries wallet-provisioning events from the login path to
// the provisioning worker. Three transports exist: none (publish reports
// ErrNoTransport and the caller runs the inline engine call), a local HTTP
// push that mimics a push subscription for development, and Google Pub/Sub.
package pubsub

import (
	"context"
	"log/slog"

	"tokenpath/config"
	"tokenpath/internal/domain/constants"
	"tokenpath/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noopPublisher stands in when no transport is configured. It reports
// ErrNoTransport rather than success: a nil return would tell the wallet
// service an event is on its way to a worker that does not exist, leaving
// every wallet pending forever.
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) PublishWalletProvisionEvent(ctx context.Context, event *service.WalletProvisionEvent) error {
	p.logger.Debug("Event transport disabled, caller provisions inline",
		slog.String("event_id", event.EventID),
		slog.String("account_id", event.AccountID),
	)

	return service.ErrNoTransport
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewEventPublisher selects the event transport from configuration and ties
// its shutdown to the fx lifecycle.
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	cfg := params.Config.PubSub
	logger := params.Logger

	if cfg == nil || cfg.Provider == "" {
		logger.Info("No event transport configured, wallet provisioning runs inline")

		return &noopPublisher{logger: logger}, nil
	}

	publisher, err := buildPublisher(params.Ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing event publisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

func buildPublisher(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
	switch cfg.Provider {
	case constants.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		logger.Info("Publishing provision events over local HTTP push",
			slog.String("endpoint", cfg.LocalEndpoint),
		)

		return NewLocalHTTPPublisher(cfg.LocalEndpoint, logger), nil

	case constants.PubSubProviderGoogle:
		if cfg.ProjectID == "" || cfg.TopicID == "" {
			return nil, errors.New("project ID and topic ID are required for google provider")
		}
		logger.Info("Publishing provision events to Google Pub/Sub",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		return NewGooglePubSubPublisher(ctx, cfg.ProjectID, cfg.TopicID, logger)

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}
}

// Module provides the Pub/Sub FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEventPublisher),
)
