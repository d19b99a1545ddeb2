// Package line implements the LINE mini-app (LIFF) authentication provider.
package line

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"tokenpath/config"
	"tokenpath/internal/domain/entity"
	domainerrors "tokenpath/internal/domain/errors"
	"tokenpath/internal/domain/service"

	"github.com/pkg/errors"
)

// provider implements service.AuthProvider for LINE. The LIFF SDK runs in
// the mini-app and hands the browser an ID token; server-side, the adapter
// validates the submitted token claims and normalizes them.
type provider struct {
	liffID    string
	available bool
	logger    *slog.Logger
	now       func() time.Time
}

// NewProvider creates the LINE provider adapter.
func NewProvider(cfg *config.Config, logger *slog.Logger) service.AuthProvider {
	p := &provider{
		logger: logger,
		now:    time.Now,
	}
	if cfg.Line != nil {
		p.liffID = cfg.Line.LiffID
	}

	return p
}

// Type returns the provider identifier.
func (p *provider) Type() entity.ProviderType {
	return entity.ProviderTypeLine
}

// Initialize checks the LIFF configuration. The SDK itself lives in the
// mini-app; availability here only reflects configuration presence.
func (p *provider) Initialize(ctx context.Context) error {
	if p.liffID == "" {
		p.available = false

		return errors.Wrap(domainerrors.ErrProviderInitFailed, "LIFF ID not configured")
	}

	p.available = true

	return nil
}

// IsConfigured reports whether the provider has non-empty configuration.
func (p *provider) IsConfigured() bool {
	return p.liffID != ""
}

// IsAvailable reports whether Initialize succeeded.
func (p *provider) IsAvailable() bool {
	return p.available
}

// Authenticate validates a submitted ID token and normalizes its claims.
// The credential is `{"idToken": ...}` where idToken is either a claims
// object or a compact JWT string; both shapes require sub and email.
func (p *provider) Authenticate(ctx context.Context, raw json.RawMessage) (*entity.UnifiedIdentity, error) {
	if len(raw) == 0 {
		return nil, domainerrors.ErrMissingCredential.WithDetails("idToken is required")
	}

	var body struct {
		IDToken json.RawMessage `json:"idToken"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("malformed LINE auth data")
	}

	token := bytesTrim(body.IDToken)
	if len(token) == 0 || string(token) == "null" {
		return nil, domainerrors.ErrMissingCredential.WithDetails("idToken is required")
	}

	claims, err := p.parseClaims(token)
	if err != nil {
		return nil, err
	}

	if claims.Sub == "" || claims.Email == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			"invalid LINE idToken fields (sub and email are required)")
	}

	if claims.Exp != 0 && claims.Exp < p.now().Unix() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("LINE idToken is expired")
	}

	return normalize(claims), nil
}

// Logout is a no-op server-side; the mini-app clears its own SDK state and
// the backend session is torn down by the auth usecase.
func (p *provider) Logout(ctx context.Context) error {
	return nil
}

// parseClaims accepts a claims object directly, or extracts the payload of
// a compact JWT string.
func (p *provider) parseClaims(token json.RawMessage) (*entity.LineIDToken, error) {
	var claims entity.LineIDToken

	if token[0] == '"' {
		var compact string
		if err := json.Unmarshal(token, &compact); err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails("malformed LINE idToken")
		}

		parsed, err := parseCompactIDToken(compact)
		if err != nil {
			p.logger.Warn("Failed to parse LINE ID token", slog.Any("error", err))

			return nil, domainerrors.ErrValidationFailed.WithDetails("invalid LINE idToken format")
		}

		return parsed, nil
	}

	if err := json.Unmarshal(token, &claims); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("malformed LINE idToken")
	}

	return &claims, nil
}

// parseCompactIDToken decodes the payload segment of a compact JWT.
// Signature verification is LINE's side of the contract; the platform
// validates the token claims it was handed, as the origin server does.
func parseCompactIDToken(token string) (*entity.LineIDToken, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid JWT format")
	}

	decoded, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode token payload")
	}

	var claims entity.LineIDToken
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return nil, errors.Wrap(err, "failed to parse token claims")
	}

	return &claims, nil
}

// normalize converts validated ID-token claims into a UnifiedIdentity.
func normalize(claims *entity.LineIDToken) *entity.UnifiedIdentity {
	return &entity.UnifiedIdentity{
		ID:       claims.Sub,
		Email:    claims.Email,
		Name:     claims.Name,
		Avatar:   claims.Picture,
		Provider: entity.ProviderTypeLine,
	}
}

func bytesTrim(raw json.RawMessage) json.RawMessage {
	return json.RawMessage(strings.TrimSpace(string(raw)))
}
