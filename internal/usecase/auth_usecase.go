// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"encoding/json"

	"tokenpath/internal/domain/entity"
)

// --- Output DTOs ---

// LoginOutput returns the session token and account after a successful login.
type LoginOutput struct {
	Token         string
	Account       *entity.Account
	Provider      entity.ProviderType
	WalletPending bool
}

// GuestOutput returns the session token and account for a guest login.
type GuestOutput struct {
	Token   string
	Account *entity.Account
}

// MeOutput returns the current account together with its wallet state.
type MeOutput struct {
	Account *entity.Account
	Wallet  *entity.WalletRecord
	IsGuest bool
}

// AuthUsecase defines the interface for authentication operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Initialize eagerly initializes all registered providers. Safe to call
	// more than once.
	Initialize(ctx context.Context)

	// Availability reports which providers are configured and ready.
	Availability() entity.ProviderAvailability

	// DefaultProvider returns the provider a fresh client should start with,
	// or "" when none is available.
	DefaultProvider() entity.ProviderType

	// Login verifies provider credentials, finds or creates the matching
	// account, and issues a session token.
	Login(ctx context.Context, provider entity.ProviderType, credential json.RawMessage) (*LoginOutput, error)

	// GuestLogin provisions a throwaway guest account and issues a session
	// token for it.
	GuestLogin(ctx context.Context) (*GuestOutput, error)

	// Me resolves the current account and its wallet state.
	Me(ctx context.Context, accountID string, isGuest bool) (*MeOutput, error)

	// Logout tears down provider-side session state. The session cookie is
	// cleared by the delivery layer.
	Logout(ctx context.Context, provider entity.ProviderType) error
}
