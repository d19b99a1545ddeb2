package telegram

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"tokenpath/config"
	"tokenpath/internal/domain/entity"
	domainerrors "tokenpath/internal/domain/errors"
	"tokenpath/internal/domain/service"

	"github.com/pkg/errors"
)

// provider implements service.AuthProvider for the Telegram login widget.
// The widget completes entirely in the browser; server-side, the adapter's
// job is structural validation plus signature verification of the payload
// the widget handed back.
type provider struct {
	botUsername string
	botToken    string
	available   bool
	logger      *slog.Logger
	now         func() time.Time
}

// NewProvider creates the Telegram provider adapter.
func NewProvider(cfg *config.Config, logger *slog.Logger) service.AuthProvider {
	p := &provider{
		logger: logger,
		now:    time.Now,
	}
	if cfg.Telegram != nil {
		p.botUsername = cfg.Telegram.BotUsername
		p.botToken = cfg.Telegram.BotToken
	}

	return p
}

// Type returns the provider identifier.
func (p *provider) Type() entity.ProviderType {
	return entity.ProviderTypeTelegram
}

// Initialize resolves the bot username from configuration. There is no SDK
// to warm up server-side; availability only reflects configuration presence.
func (p *provider) Initialize(ctx context.Context) error {
	if p.botUsername == "" {
		p.available = false

		return errors.Wrap(domainerrors.ErrProviderInitFailed, "telegram bot username not configured")
	}

	if p.botToken == "" {
		// Deliberate fallback: logins proceed without signature verification.
		p.logger.Warn("Telegram bot token not configured, hash validation will be skipped")
	}

	p.available = true

	return nil
}

// IsConfigured reports whether the provider has non-empty configuration.
func (p *provider) IsConfigured() bool {
	return p.botUsername != ""
}

// IsAvailable reports whether Initialize succeeded.
func (p *provider) IsAvailable() bool {
	return p.available
}

// Authenticate validates a login-widget payload and normalizes it.
// With a configured bot token the signature is verified and mismatches are
// rejected; without one the payload is accepted with a logged warning.
func (p *provider) Authenticate(ctx context.Context, raw json.RawMessage) (*entity.UnifiedIdentity, error) {
	if len(raw) == 0 {
		return nil, domainerrors.ErrMissingCredential.WithDetails("missing telegram auth data")
	}

	var data entity.TelegramLoginData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("malformed telegram auth data")
	}

	if data.ID == 0 || data.FirstName == "" || data.AuthDate == 0 || data.Hash == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			"invalid telegram auth data: id, first_name, auth_date and hash are required")
	}

	if p.botToken == "" {
		p.logger.Warn("Skipping telegram hash validation, bot token not configured",
			slog.Int64("telegramID", data.ID))
	} else if err := Verify(&data, p.botToken, p.now()); err != nil {
		p.logger.Warn("Telegram signature verification failed",
			slog.Int64("telegramID", data.ID),
			slog.Any("error", err))

		return nil, err
	}

	return normalize(&data), nil
}

// Logout is a no-op; the widget keeps no client session worth clearing and
// the backend session is torn down by the auth usecase.
func (p *provider) Logout(ctx context.Context) error {
	return nil
}

// normalize converts a verified widget payload into a UnifiedIdentity.
// Telegram never supplies an email; the account email is synthesized later.
func normalize(data *entity.TelegramLoginData) *entity.UnifiedIdentity {
	return &entity.UnifiedIdentity{
		ID:       strconv.FormatInt(data.ID, 10),
		Name:     data.FullName(),
		Avatar:   data.PhotoURL,
		Provider: entity.ProviderTypeTelegram,
	}
}
