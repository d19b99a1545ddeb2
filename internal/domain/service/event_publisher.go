package service

import (
	"context"

	"tokenpath/internal/errors"
)

// ErrNoTransport is returned by publishers that have no transport behind
// them. Callers must do the work inline instead of waiting for a worker
// that will never be reached.
var ErrNoTransport = errors.New("event transport not configured")

// WalletProvisionEvent asks the worker to mint a wallet address for an
// existing wallet record. Events are idempotent: the worker re-checks the
// record before calling the engine, so redelivery is harmless.
type WalletProvisionEvent struct {
	RequestID      string `json:"request_id,omitempty"` // For distributed tracing
	EventID        string `json:"event_id"`
	AccountID      string `json:"account_id"`
	WalletRecordID string `json:"wallet_record_id"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishWalletProvisionEvent publishes a provisioning request for async processing
	PublishWalletProvisionEvent(ctx context.Context, event *WalletProvisionEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
