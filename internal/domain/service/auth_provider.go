// Package service defines domain service contracts implemented by the
// infrastructure layer.
package service

import (
	"context"
	"encoding/json"

	"tokenpath/internal/domain/entity"
)

// AuthProvider is the capability contract every authentication provider
// adapter implements. Adapters own their provider's configuration lifecycle
// and credential verification; they return identity facts only and make no
// account or session decisions.
type AuthProvider interface {
	// Type returns the provider identifier.
	Type() entity.ProviderType

	// Initialize prepares the adapter from configuration. A failed
	// initialization leaves the adapter unavailable and returns a wrapped
	// error; it must be safe to call again.
	Initialize(ctx context.Context) error

	// IsConfigured reports whether the provider has non-empty configuration.
	IsConfigured() bool

	// IsAvailable reports whether Initialize succeeded.
	IsAvailable() bool

	// Authenticate validates a raw provider credential and normalizes it
	// into a UnifiedIdentity. Validation failures return AppError values;
	// Authenticate never panics and never contacts the record store.
	Authenticate(ctx context.Context, raw json.RawMessage) (*entity.UnifiedIdentity, error)

	// Logout tears down provider-side login state. A no-op for providers
	// whose session lives entirely server-side.
	Logout(ctx context.Context) error
}
