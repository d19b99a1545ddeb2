package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"tokenpath/internal/domain/service"

	"github.com/pkg/errors"
)

const localSubscription = "projects/local/subscriptions/wallet-provision-sub"

// localHTTPPublisher posts events straight to the worker's push endpoint,
// wrapped in the same envelope a Google push subscription would deliver.
// The worker cannot tell the difference, so the whole saga is exercisable
// without cloud infrastructure.
type localHTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// PubSubPushMessage is the push-delivery envelope: base64 event payload plus
// string attributes, as Google Pub/Sub wraps messages pushed to HTTP endpoints.
type PubSubPushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewLocalHTTPPublisher creates a new local HTTP publisher for development
func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// PublishWalletProvisionEvent wraps the event in a push envelope and posts
// it to the worker. A non-2xx status is a failed publish; the caller then
// falls back to inline provisioning.
func (p *localHTTPPublisher) PublishWalletProvisionEvent(ctx context.Context, event *service.WalletProvisionEvent) error {
	body, err := p.buildEnvelope(event)
	if err != nil {
		return err
	}

	p.logger.Info("Pushing provision event to worker",
		slog.String("endpoint", p.endpoint),
		slog.String("event_id", event.EventID),
		slog.String("account_id", event.AccountID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if event.RequestID != "" {
		req.Header.Set("X-Request-Id", event.RequestID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("worker returned non-success status: %d", resp.StatusCode)
	}

	return nil
}

func (p *localHTTPPublisher) buildEnvelope(event *service.WalletProvisionEvent) ([]byte, error) {
	eventData, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	pushMsg := PubSubPushMessage{Subscription: localSubscription}
	pushMsg.Message.Data = base64.StdEncoding.EncodeToString(eventData)
	pushMsg.Message.MessageID = event.EventID
	pushMsg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)
	pushMsg.Message.Attributes = eventAttributes(event)

	body, err := json.Marshal(pushMsg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return body, nil
}

// Close releases resources (no-op for HTTP client)
func (p *localHTTPPublisher) Close() error {
	return nil
}
