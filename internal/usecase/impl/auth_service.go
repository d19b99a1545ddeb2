package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"tokenpath/config"
	"tokenpath/internal/domain/entity"
	domainerrors "tokenpath/internal/domain/errors"
	"tokenpath/internal/domain/repository"
	"tokenpath/internal/domain/service"
	"tokenpath/internal/infra/auth"
	"tokenpath/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface. It is the single entry
// point for every login path; provider adapters only verify credentials.
type authService struct {
	registry     *auth.Registry
	accountRepo  repository.AccountRepository
	tokenService service.TokenService
	walletUC     usecase.WalletUsecase
	userPassword string
	logger       *slog.Logger

	initOnce sync.Once
}

// AuthServiceParams holds dependencies for authService, injected by Fx
type AuthServiceParams struct {
	fx.In

	Registry     *auth.Registry
	AccountRepo  repository.AccountRepository
	TokenService service.TokenService
	WalletUC     usecase.WalletUsecase
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	userPassword := ""
	if params.Config.RecordStore != nil {
		userPassword = params.Config.RecordStore.UserPassword
	}

	return &authService{
		registry:     params.Registry,
		accountRepo:  params.AccountRepo,
		tokenService: params.TokenService,
		walletUC:     params.WalletUC,
		userPassword: userPassword,
		logger:       params.Logger,
	}
}

// Initialize initializes every registered provider concurrently. A provider
// that fails stays unavailable; the rest keep working. Subsequent calls are
// no-ops.
func (srv *authService) Initialize(ctx context.Context) {
	srv.initOnce.Do(func() {
		var wg sync.WaitGroup
		for _, provider := range srv.registry.All() {
			wg.Add(1)
			go func(p service.AuthProvider) {
				defer wg.Done()
				if err := p.Initialize(ctx); err != nil {
					srv.logger.Warn("Provider initialization failed",
						slog.String("provider", string(p.Type())),
						slog.Any("error", err),
					)
				}
			}(provider)
		}
		wg.Wait()
	})
}

// Availability reports which providers are ready to authenticate.
func (srv *authService) Availability() entity.ProviderAvailability {
	var availability entity.ProviderAvailability
	for _, provider := range srv.registry.All() {
		if !provider.IsAvailable() {
			continue
		}
		switch provider.Type() {
		case entity.ProviderTypeLine:
			availability.Line = true
		case entity.ProviderTypeTelegram:
			availability.Telegram = true
		}
	}

	return availability
}

// DefaultProvider picks the provider a fresh client should start with. LINE
// wins when available, then the remaining providers in registration order.
func (srv *authService) DefaultProvider() entity.ProviderType {
	if p, ok := srv.registry.Get(entity.ProviderTypeLine); ok && p.IsAvailable() {
		return entity.ProviderTypeLine
	}
	for _, provider := range srv.registry.All() {
		if provider.IsAvailable() {
			return provider.Type()
		}
	}

	return ""
}

// Login runs the full login flow for one provider: credential verification,
// find-or-create of the account, session issuance, and best-effort wallet
// provisioning. Wallet failures never fail the login.
func (srv *authService) Login(ctx context.Context, providerType entity.ProviderType, credential json.RawMessage) (*usecase.LoginOutput, error) {
	provider, ok := srv.registry.Get(providerType)
	if !ok {
		return nil, domainerrors.ErrUnsupportedProvider.WithDetails(string(providerType))
	}
	if !provider.IsConfigured() || !provider.IsAvailable() {
		return nil, domainerrors.ErrProviderUnavailable.WithDetails(string(providerType))
	}

	identity, err := provider.Authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}

	account, err := srv.findOrCreateAccount(ctx, identity)
	if err != nil {
		return nil, err
	}

	token, err := srv.tokenService.IssueSession(account.ID, false)
	if err != nil {
		return nil, domainerrors.ErrSessionIssueFailed.WrapMessage(err.Error())
	}

	walletPending := srv.ensureWalletBestEffort(ctx, account.ID)

	srv.logger.Info("Login succeeded",
		slog.String("provider", string(providerType)),
		slog.String("account_id", account.ID),
	)

	return &usecase.LoginOutput{
		Token:         token,
		Account:       account,
		Provider:      providerType,
		WalletPending: walletPending,
	}, nil
}

// findOrCreateAccount resolves the identity to an account record, creating
// one on first login. Account uniqueness rides on the store's email
// constraint; on a create conflict the retry authentication wins the race.
func (srv *authService) findOrCreateAccount(ctx context.Context, identity *entity.UnifiedIdentity) (*entity.Account, error) {
	email := identity.AccountEmail()

	account, err := srv.accountRepo.AuthWithPassword(ctx, email, srv.userPassword)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		// Surface the store's own status when it carries one. A 503 from
		// the store is not this service's 500.
		var storeErr repository.UpstreamStatusError
		if errors.As(err, &storeErr) {
			return nil, domainerrors.NewUpstreamAuthError(err, storeErr.UpstreamStatus(), storeErr.UpstreamMessage())
		}

		return nil, domainerrors.ErrInternalError.WrapMessage(err.Error())
	}

	_, err = srv.accountRepo.Create(ctx, &repository.CreateAccountInput{
		Email:           email,
		Name:            identity.DisplayName(),
		Password:        srv.userPassword,
		EmailVisibility: identity.Email != "",
	})
	if err != nil {
		// Another login may have created the account concurrently. The
		// retry below resolves both the conflict and the success case.
		srv.logger.Warn("Account creation returned an error, retrying authentication",
			slog.String("email", email),
			slog.Any("error", err),
		)
	}

	account, err = srv.accountRepo.AuthWithPassword(ctx, email, srv.userPassword)
	if err != nil {
		return nil, domainerrors.ErrAccountCreationFailed.WrapMessage(err.Error())
	}

	return account, nil
}

// GuestLogin provisions a throwaway guest account and issues a session for it.
func (srv *authService) GuestLogin(ctx context.Context) (*usecase.GuestOutput, error) {
	id := uuid.New().String()
	email := "guest_" + id + "@guest.local"
	name := "Guest User " + id[:8]

	_, err := srv.accountRepo.Create(ctx, &repository.CreateAccountInput{
		Email:    email,
		Name:     name,
		Password: srv.userPassword,
	})
	if err != nil {
		return nil, domainerrors.ErrAccountCreationFailed.WrapMessage(err.Error())
	}

	account, err := srv.accountRepo.AuthWithPassword(ctx, email, srv.userPassword)
	if err != nil {
		return nil, domainerrors.ErrAccountCreationFailed.WrapMessage(err.Error())
	}

	token, err := srv.tokenService.IssueSession(account.ID, true)
	if err != nil {
		return nil, domainerrors.ErrSessionIssueFailed.WrapMessage(err.Error())
	}

	// Guests get a wallet too so the learning flows work without a real login.
	_ = srv.ensureWalletBestEffort(ctx, account.ID)

	srv.logger.Info("Guest login succeeded", slog.String("account_id", account.ID))

	return &usecase.GuestOutput{Token: token, Account: account}, nil
}

// Me resolves the current account and its wallet state.
func (srv *authService) Me(ctx context.Context, accountID string, isGuest bool) (*usecase.MeOutput, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		return nil, domainerrors.ErrInternalError.WrapMessage(err.Error())
	}

	out := &usecase.MeOutput{Account: account, IsGuest: isGuest || account.IsGuest()}

	result, err := srv.walletUC.EnsureWallet(ctx, account.ID)
	if err != nil {
		srv.logger.Warn("Wallet lookup failed during session resolution",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)

		return out, nil
	}
	if result != nil {
		out.Wallet = result.Record
	}

	return out, nil
}

// Logout tears down provider-side state. The session cookie itself is
// cleared by the delivery layer.
func (srv *authService) Logout(ctx context.Context, providerType entity.ProviderType) error {
	provider, ok := srv.registry.Get(providerType)
	if !ok {
		return domainerrors.ErrUnsupportedProvider.WithDetails(string(providerType))
	}

	if err := provider.Logout(ctx); err != nil {
		// Local session teardown still succeeds; the provider state is
		// client-side for both supported providers anyway.
		srv.logger.Warn("Provider logout failed",
			slog.String("provider", string(providerType)),
			slog.Any("error", err),
		)
	}

	return nil
}

// ensureWalletBestEffort kicks off wallet provisioning without ever failing
// the caller. Returns true while provisioning is still pending.
func (srv *authService) ensureWalletBestEffort(ctx context.Context, accountID string) bool {
	result, err := srv.walletUC.EnsureWallet(ctx, accountID)
	if err != nil {
		srv.logger.Warn("Wallet provisioning failed during login",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)

		return false
	}
	if result == nil {
		return false
	}

	return result.Pending
}
