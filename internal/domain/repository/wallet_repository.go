package repository

import (
	"context"

	"tokenpath/internal/domain/entity"
)

// WalletRepository is the contract for wallet records in the external store.
// One record per account; the address is filled in once the wallet engine
// has minted it. This core creates and updates records, never deletes them.
type WalletRepository interface {
	// FindByUserID loads the wallet record linked to an account.
	// Returns ErrWalletNotFound when no record exists yet.
	FindByUserID(ctx context.Context, userID string) (*entity.WalletRecord, error)

	// Create inserts an empty wallet record for the account.
	Create(ctx context.Context, userID string) (*entity.WalletRecord, error)

	// SetAddress stores the minted wallet address on an existing record.
	SetAddress(ctx context.Context, recordID, address string) error

	// Available probes whether the store's wallet collection is reachable.
	// Implementations cache the answer; wallet features are disabled while
	// the collection is missing.
	Available(ctx context.Context) bool
}
