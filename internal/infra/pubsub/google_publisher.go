package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"tokenpath/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// googlePubSubPublisher publishes provision events to a Google Pub/Sub topic.
// The worker consumes them through a push subscription on that topic.
type googlePubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    *slog.Logger
}

// NewGooglePubSubPublisher creates a publisher bound to an existing topic.
// A missing topic fails startup; provisioning events silently going nowhere
// would be much harder to notice later.
func NewGooglePubSubPublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: topicPath}); err != nil {
		client.Close()

		return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
	}

	return &googlePubSubPublisher{
		client:    client,
		publisher: client.Publisher(topicID),
		logger:    logger,
	}, nil
}

// PublishWalletProvisionEvent publishes the event and waits for the server
// ack so a failed publish surfaces to the caller's inline fallback.
func (p *googlePubSubPublisher) PublishWalletProvisionEvent(ctx context.Context, event *service.WalletProvisionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: eventAttributes(event),
	})

	serverID, err := result.Get(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	p.logger.Info("Provision event published",
		slog.String("event_id", event.EventID),
		slog.String("account_id", event.AccountID),
		slog.String("server_id", serverID),
	)

	return nil
}

// eventAttributes builds the message attributes used for subscription
// filtering and request tracing.
func eventAttributes(event *service.WalletProvisionEvent) map[string]string {
	attributes := map[string]string{
		"event_id":   event.EventID,
		"account_id": event.AccountID,
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}

// Close releases Pub/Sub client resources
func (p *googlePubSubPublisher) Close() error {
	if p.publisher != nil {
		p.publisher.Stop()
	}
	if p.client != nil {
		return errors.WithStack(p.client.Close())
	}

	return nil
}
