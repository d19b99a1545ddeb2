// Package impl contains the concrete implementations of the usecase
// interfaces.
package impl

import (
	"context"
	"log/slog"

	deliveryctx "tokenpath/internal/delivery/context"
	"tokenpath/internal/domain/entity"
	domainerrors "tokenpath/internal/domain/errors"
	"tokenpath/internal/domain/repository"
	"tokenpath/internal/domain/service"
	"tokenpath/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// walletService implements the WalletUsecase interface.
type walletService struct {
	walletRepo repository.WalletRepository
	engine     service.WalletEngine
	publisher  service.EventPublisher
	qrService  service.QRCodeService
	logger     *slog.Logger
}

// WalletServiceParams holds dependencies for walletService, injected by Fx
type WalletServiceParams struct {
	fx.In

	WalletRepo repository.WalletRepository
	Engine     service.WalletEngine
	Publisher  service.EventPublisher
	QRService  service.QRCodeService
	Logger     *slog.Logger
}

// NewWalletService is the constructor for walletService.
func NewWalletService(params WalletServiceParams) usecase.WalletUsecase {
	return &walletService{
		walletRepo: params.WalletRepo,
		engine:     params.Engine,
		publisher:  params.Publisher,
		qrService:  params.QRService,
		logger:     params.Logger,
	}
}

// EnsureWallet guarantees a wallet record exists for the account and requests
// backend provisioning when the record has no address yet. Callers treat a
// nil result with nil error as "wallet infrastructure unavailable".
func (srv *walletService) EnsureWallet(ctx context.Context, accountID string) (*usecase.EnsureWalletResult, error) {
	if !srv.walletRepo.Available(ctx) {
		srv.logger.Warn("Wallet collection unavailable, skipping wallet provisioning",
			slog.String("account_id", accountID),
		)

		return nil, nil
	}

	record, err := srv.walletRepo.FindByUserID(ctx, accountID)
	switch {
	case err == nil:
		if record.Provisioned() {
			return &usecase.EnsureWalletResult{Record: record}, nil
		}
		// Record exists but provisioning never finished. Re-request it.
		return srv.requestProvisioning(ctx, accountID, record)

	case errors.Is(err, repository.ErrWalletNotFound):
		record, err = srv.walletRepo.Create(ctx, accountID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create wallet record")
		}

		return srv.requestProvisioning(ctx, accountID, record)

	default:
		return nil, errors.Wrap(err, "failed to look up wallet record")
	}
}

// requestProvisioning publishes a provisioning event, falling back to inline
// provisioning when publishing fails.
func (srv *walletService) requestProvisioning(ctx context.Context, accountID string, record *entity.WalletRecord) (*usecase.EnsureWalletResult, error) {
	event := &service.WalletProvisionEvent{
		RequestID:      deliveryctx.GetRequestIDFromContext(ctx),
		EventID:        uuid.New().String(),
		AccountID:      accountID,
		WalletRecordID: record.ID,
	}

	logger := deliveryctx.GetLoggerOrDefault(ctx, srv.logger)

	publishErr := srv.publisher.PublishWalletProvisionEvent(ctx, event)
	if publishErr == nil {
		return &usecase.EnsureWalletResult{Record: record, Pending: true}, nil
	}
	if errors.Is(publishErr, service.ErrNoTransport) {
		logger.Debug("No event transport, provisioning wallet inline",
			slog.String("account_id", accountID),
		)
	} else {
		logger.Warn("Failed to publish wallet provision event, provisioning inline",
			slog.String("account_id", accountID),
			slog.Any("error", publishErr),
		)
	}

	// Inline fallback keeps development setups without a worker functional.
	if err := srv.ProvisionWallet(ctx, accountID, record.ID); err != nil {
		logger.Error("Inline wallet provisioning failed",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)

		return &usecase.EnsureWalletResult{Record: record, Pending: true}, nil
	}

	record, err := srv.walletRepo.FindByUserID(ctx, accountID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload wallet record")
	}

	return &usecase.EnsureWalletResult{Record: record}, nil
}

// CreateWallet explicitly provisions a wallet for the account.
func (srv *walletService) CreateWallet(ctx context.Context, accountID string) (*entity.WalletRecord, error) {
	if !srv.walletRepo.Available(ctx) {
		return nil, domainerrors.ErrWalletProvisioning.WithDetails("wallet collection unavailable")
	}

	record, err := srv.walletRepo.FindByUserID(ctx, accountID)
	switch {
	case err == nil:
		if record.Provisioned() {
			return nil, domainerrors.ErrWalletExists
		}
	case errors.Is(err, repository.ErrWalletNotFound):
		record, err = srv.walletRepo.Create(ctx, accountID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create wallet record")
		}
	default:
		return nil, errors.Wrap(err, "failed to look up wallet record")
	}

	if err := srv.ProvisionWallet(ctx, accountID, record.ID); err != nil {
		return nil, domainerrors.ErrWalletProvisioning.WrapMessage(err.Error())
	}

	record, err = srv.walletRepo.FindByUserID(ctx, accountID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload wallet record")
	}

	return record, nil
}

// ProvisionWallet mints a backend wallet and writes its address onto the
// record. Safe to call twice for the same record.
func (srv *walletService) ProvisionWallet(ctx context.Context, accountID, walletRecordID string) error {
	record, err := srv.walletRepo.FindByUserID(ctx, accountID)
	if err != nil {
		return errors.Wrap(err, "failed to load wallet record for provisioning")
	}
	if record.ID != walletRecordID {
		return errors.Errorf("wallet record mismatch: have %s, want %s", record.ID, walletRecordID)
	}
	if record.Provisioned() {
		srv.logger.Info("Wallet already provisioned, skipping",
			slog.String("account_id", accountID),
			slog.String("wallet_record_id", walletRecordID),
		)

		return nil
	}

	address, err := srv.engine.CreateBackendWallet(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create backend wallet")
	}

	if err := srv.walletRepo.SetAddress(ctx, record.ID, address); err != nil {
		return errors.Wrap(err, "failed to store wallet address")
	}

	srv.logger.Info("Wallet provisioned",
		slog.String("account_id", accountID),
		slog.String("wallet_address", address),
	)

	return nil
}

// Balance reads the native token balance for the account's wallet. Accounts
// without a provisioned wallet get a well-formed zero balance.
func (srv *walletService) Balance(ctx context.Context, accountID string) (*entity.Balance, error) {
	record, err := srv.findProvisioned(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return entity.EmptyBalance(), nil
	}

	balance, err := srv.engine.GetBalance(ctx, record.WalletAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch wallet balance")
	}

	return balance, nil
}

// WalletQR renders the account's wallet address as a PNG QR code.
func (srv *walletService) WalletQR(ctx context.Context, accountID string) ([]byte, error) {
	record, err := srv.findProvisioned(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domainerrors.ErrWalletNotFound
	}

	png, err := srv.qrService.GenerateWalletQR(record.WalletAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate wallet QR code")
	}

	return png, nil
}

// findProvisioned returns the account's provisioned wallet record, or nil
// when the account has no usable wallet yet.
func (srv *walletService) findProvisioned(ctx context.Context, accountID string) (*entity.WalletRecord, error) {
	if !srv.walletRepo.Available(ctx) {
		return nil, nil
	}

	record, err := srv.walletRepo.FindByUserID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to look up wallet record")
	}
	if !record.Provisioned() {
		return nil, nil
	}

	return record, nil
}
