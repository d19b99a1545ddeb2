package service

import (
	"context"

	"tokenpath/internal/domain/entity"
)

// WalletEngine is the contract for the external custodial wallet engine.
// Wallet creation and balance reads are opaque external calls; this core
// stores only the resulting address.
type WalletEngine interface {
	// CreateBackendWallet mints a new custodial wallet and returns its address.
	CreateBackendWallet(ctx context.Context) (string, error)

	// GetBalance reads the token balance of a wallet address.
	GetBalance(ctx context.Context, address string) (*entity.Balance, error)
}
