package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"tokenpath/config"
	"tokenpath/internal/domain/entity"
	domainerrors "tokenpath/internal/domain/errors"
	"tokenpath/internal/infra/auth"
	"tokenpath/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	line        *fakeProvider
	telegram    *fakeProvider
	accountRepo *fakeAccountRepo
	walletRepo  *fakeWalletRepo
	publisher   *fakePublisher
	tokens      *fakeTokenService
	service     usecase.AuthUsecase
}

func newAuthFixture() *authFixture {
	line := &fakeProvider{
		providerType: entity.ProviderTypeLine,
		configured:   true,
		identity:     &entity.UnifiedIdentity{ID: "U123", Email: "user@example.com", Name: "Line User", Provider: entity.ProviderTypeLine},
	}
	telegram := &fakeProvider{
		providerType: entity.ProviderTypeTelegram,
		configured:   true,
		identity:     &entity.UnifiedIdentity{ID: "987", Name: "TG User", Provider: entity.ProviderTypeTelegram},
	}

	accountRepo := newFakeAccountRepo()
	walletRepo := newFakeWalletRepo()
	publisher := &fakePublisher{}
	tokens := &fakeTokenService{}

	cfg := &config.Config{
		RecordStore: &config.RecordStoreConfig{URL: "http://store", UserPassword: "shared-password"},
	}

	walletUC := NewWalletService(WalletServiceParams{
		WalletRepo: walletRepo,
		Engine:     &fakeEngine{address: "0xabc"},
		Publisher:  publisher,
		QRService:  &fakeQRService{},
		Logger:     slog.New(slog.DiscardHandler),
	})

	service := NewAuthService(AuthServiceParams{
		Registry:     auth.NewRegistry(line, telegram),
		AccountRepo:  accountRepo,
		TokenService: tokens,
		WalletUC:     walletUC,
		Config:       cfg,
		Logger:       slog.New(slog.DiscardHandler),
	})

	return &authFixture{
		line:        line,
		telegram:    telegram,
		accountRepo: accountRepo,
		walletRepo:  walletRepo,
		publisher:   publisher,
		tokens:      tokens,
		service:     service,
	}
}

func TestInitialize_RunsEveryProviderOnce(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()

	fx.service.Initialize(context.Background())
	fx.service.Initialize(context.Background())

	assert.Equal(t, 1, fx.line.initCalls)
	assert.Equal(t, 1, fx.telegram.initCalls)
}

func TestInitialize_FailureLeavesOtherProvidersAvailable(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.line.initErr = errors.New("missing liff id")

	fx.service.Initialize(context.Background())

	availability := fx.service.Availability()
	assert.False(t, availability.Line)
	assert.True(t, availability.Telegram)
}

func TestDefaultProvider_PrefersLine(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.service.Initialize(context.Background())

	assert.Equal(t, entity.ProviderTypeLine, fx.service.DefaultProvider())
}

func TestDefaultProvider_FallsBackInRegistrationOrder(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.line.initErr = errors.New("missing liff id")
	fx.service.Initialize(context.Background())

	assert.Equal(t, entity.ProviderTypeTelegram, fx.service.DefaultProvider())
}

func TestDefaultProvider_EmptyWhenNothingAvailable(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()

	assert.Equal(t, entity.ProviderType(""), fx.service.DefaultProvider())
}

func TestLogin_CreatesAccountOnFirstLogin(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.service.Initialize(context.Background())

	out, err := fx.service.Login(context.Background(), entity.ProviderTypeLine, json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", out.Account.Email)
	assert.Equal(t, entity.ProviderTypeLine, out.Provider)
	assert.True(t, strings.HasPrefix(out.Token, "token-"))
	// Wallet provisioning was kicked off asynchronously.
	assert.True(t, out.WalletPending)
	assert.Equal(t, 1, fx.publisher.published())
}

func TestLogin_ReusesExistingAccount(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.service.Initialize(context.Background())
	fx.accountRepo.seed(&entity.Account{ID: "existing", Email: "user@example.com", Name: "Line User"})

	out, err := fx.service.Login(context.Background(), entity.ProviderTypeLine, json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "existing", out.Account.ID)
}

func TestLogin_SynthesizesEmailWithoutProviderEmail(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.service.Initialize(context.Background())

	out, err := fx.service.Login(context.Background(), entity.ProviderTypeTelegram, json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "987@telegram.local", out.Account.Email)
}

func TestLogin_UnsupportedProvider(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.service.Initialize(context.Background())

	_, err := fx.service.Login(context.Background(), entity.ProviderType("google"), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedProvider)
}

func TestLogin_UnavailableProvider(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	// Initialize never ran, so no provider is available.

	_, err := fx.service.Login(context.Background(), entity.ProviderTypeLine, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, domainerrors.ErrProviderUnavailable)
}

func TestLogin_PropagatesProviderError(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.service.Initialize(context.Background())
	fx.line.authErr = domainerrors.ErrSignatureMismatch

	_, err := fx.service.Login(context.Background(), entity.ProviderTypeLine, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, domainerrors.ErrSignatureMismatch)
}

func TestLogin_UnconfiguredProvider(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.service.Initialize(context.Background())
	// Available but no longer configured; the flow must reject before
	// touching the adapter.
	fx.line.configured = false

	_, err := fx.service.Login(context.Background(), entity.ProviderTypeLine, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, domainerrors.ErrProviderUnavailable)
}

// stubStoreError mimics a record-store rejection carrying its own status.
type stubStoreError struct {
	status  int
	message string
}

func (e *stubStoreError) Error() string           { return e.message }
func (e *stubStoreError) UpstreamStatus() int     { return e.status }
func (e *stubStoreError) UpstreamMessage() string { return e.message }

func TestLogin_SurfacesUpstreamStoreStatus(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.service.Initialize(context.Background())
	fx.accountRepo.authErr = &stubStoreError{status: 503, message: "store overloaded"}

	_, err := fx.service.Login(context.Background(), entity.ProviderTypeLine, json.RawMessage(`{}`))
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 503, appErr.HTTPCode())
	assert.Equal(t, "UPSTREAM_AUTH_FAILED", appErr.ErrorCode())
	assert.Equal(t, "store overloaded", appErr.Details())
}

func TestLogin_WalletFailureDoesNotFailLogin(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.service.Initialize(context.Background())
	fx.walletRepo.available = false

	out, err := fx.service.Login(context.Background(), entity.ProviderTypeLine, json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.False(t, out.WalletPending)
}

func TestLogin_SessionIssueFailure(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.service.Initialize(context.Background())
	fx.tokens.issueErr = errors.New("no secret")

	_, err := fx.service.Login(context.Background(), entity.ProviderTypeLine, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, domainerrors.ErrSessionIssueFailed)
}

func TestGuestLogin(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()

	out, err := fx.service.GuestLogin(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Account.IsGuest())
	assert.True(t, strings.HasPrefix(out.Account.Email, "guest_"))
	assert.True(t, strings.HasPrefix(out.Account.Name, "Guest User "))
	assert.True(t, strings.HasPrefix(out.Token, "guest-token-"))
}

func TestGuestLogin_CreateFailure(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.accountRepo.createErr = errors.New("store down")

	_, err := fx.service.GuestLogin(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrAccountCreationFailed)
}

func TestMe_ResolvesAccountAndWallet(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.accountRepo.seed(&entity.Account{ID: "acc-1", Email: "user@example.com"})
	fx.walletRepo.seed(&entity.WalletRecord{ID: "w1", UserID: "acc-1", WalletAddress: "0xdef"})

	out, err := fx.service.Me(context.Background(), "acc-1", false)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", out.Account.ID)
	require.NotNil(t, out.Wallet)
	assert.Equal(t, "0xdef", out.Wallet.WalletAddress)
	assert.False(t, out.IsGuest)
}

func TestMe_UnknownAccount(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()

	_, err := fx.service.Me(context.Background(), "missing", false)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestMe_GuestFlagFromEmail(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()
	fx.accountRepo.seed(&entity.Account{ID: "acc-g", Email: "guest_xyz@guest.local"})

	out, err := fx.service.Me(context.Background(), "acc-g", false)
	require.NoError(t, err)
	assert.True(t, out.IsGuest)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture()

	assert.NoError(t, fx.service.Logout(context.Background(), entity.ProviderTypeLine))
	assert.ErrorIs(t, fx.service.Logout(context.Background(), entity.ProviderType("google")), domainerrors.ErrUnsupportedProvider)

	// Provider-side failures do not break local logout.
	fx.line.logoutErr = errors.New("liff teardown failed")
	assert.NoError(t, fx.service.Logout(context.Background(), entity.ProviderTypeLine))
}
