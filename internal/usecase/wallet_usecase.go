package usecase

import (
	"context"

	"tokenpath/internal/domain/entity"
)

// EnsureWalletResult reports how far wallet provisioning got.
type EnsureWalletResult struct {
	Record *entity.WalletRecord
	// Pending is true when a provisioning event was published but the
	// backend address is not yet written.
	Pending bool
}

// WalletUsecase defines the interface for custodial wallet operations.
type WalletUsecase interface {
	// EnsureWallet guarantees the account has a wallet record, kicking off
	// backend provisioning when needed. It degrades gracefully when the
	// wallet infrastructure is unavailable.
	EnsureWallet(ctx context.Context, accountID string) (*EnsureWalletResult, error)

	// CreateWallet explicitly provisions a wallet and fails when one already
	// has an address.
	CreateWallet(ctx context.Context, accountID string) (*entity.WalletRecord, error)

	// ProvisionWallet performs the backend provisioning step for a wallet
	// record. Called by the worker; idempotent.
	ProvisionWallet(ctx context.Context, accountID, walletRecordID string) error

	// Balance returns the native token balance for the account's wallet,
	// or a zero balance when the wallet is not provisioned yet.
	Balance(ctx context.Context, accountID string) (*entity.Balance, error)

	// WalletQR renders the account's wallet address as a PNG QR code.
	WalletQR(ctx context.Context, accountID string) ([]byte, error)
}
