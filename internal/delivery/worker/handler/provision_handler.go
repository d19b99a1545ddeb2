// Package handler processes Pub/Sub push deliveries for the wallet worker.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"tokenpath/config"
	deliverycontext "tokenpath/internal/delivery/context"
	"tokenpath/internal/domain/constants"
	"tokenpath/internal/domain/repository"
	"tokenpath/internal/domain/service"
	"tokenpath/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler handles Pub/Sub push messages for wallet provisioning
type PushHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	walletUC       usecase.WalletUsecase
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	WalletUC usecase.WalletUsecase
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Determine if we need to verify push auth based on config
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		walletUC:       params.WalletUC,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	// Verify Pub/Sub token in production for Google provider
	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	// Parse Pub/Sub message
	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Decode base64 message data
	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Parse provisioning event
	var event service.WalletProvisionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse wallet provision event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}
	if event.AccountID == "" || event.WalletRecordID == "" {
		h.logger.Error("[Worker] Wallet provision event missing identifiers",
			slog.String("event_id", event.EventID),
		)

		return c.NoContent(http.StatusBadRequest)
	}

	// Extract request_id for distributed tracing
	// Priority: message attributes > event field > existing context
	requestID := h.extractRequestID(ctx, &pushMsg, &event)

	// Create request-scoped logger with request_id
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing wallet provision event",
		slog.String("event_id", event.EventID),
		slog.String("account_id", event.AccountID),
		slog.String("wallet_record_id", event.WalletRecordID),
	)

	if err := h.provision(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to provision wallet",
			slog.String("event_id", event.EventID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// Return 503 for retryable errors to trigger Pub/Sub retry
		// Return 200 for non-retryable errors to prevent infinite retries
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Wallet provisioned successfully",
		slog.String("event_id", event.EventID),
		slog.String("account_id", event.AccountID),
	)

	return c.NoContent(http.StatusOK)
}

// provision runs the idempotent provisioning step, classifying failures into
// retryable and permanent ones.
func (h *PushHandler) provision(ctx context.Context, event *service.WalletProvisionEvent) error {
	err := h.walletUC.ProvisionWallet(ctx, event.AccountID, event.WalletRecordID)
	if err == nil {
		return nil
	}

	// A record that no longer exists will never provision; don't retry.
	if errors.Is(err, repository.ErrWalletNotFound) || errors.Is(err, repository.ErrWalletCollectionUnavailable) {
		return err
	}

	// Engine and store hiccups are worth a redelivery.
	return newRetryableError(err)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.WalletProvisionEvent) string {
	// 1. Try message attributes (from Pub/Sub)
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	// 2. Try event field (from JSON payload)
	if event.RequestID != "" {
		return event.RequestID
	}

	// 3. Try existing context (from RequestIDMiddleware via X-Request-Id header)
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	// 4. Generate new UUID as fallback
	return uuid.New().String()
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience should be the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	// The issuer should be accounts.google.com
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
