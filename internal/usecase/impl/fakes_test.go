package impl

import (
	"context"
	"encoding/json"
	"sync"

	"tokenpath/internal/domain/entity"
	"tokenpath/internal/domain/repository"
	"tokenpath/internal/domain/service"

	"github.com/pkg/errors"
)

// fakeAccountRepo is an in-memory AccountRepository keyed by email.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*entity.Account
	nextID   int

	authErr   error
	createErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*entity.Account)}
}

func (f *fakeAccountRepo) AuthWithPassword(_ context.Context, email, _ string) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.authErr != nil {
		return nil, f.authErr
	}
	if account, ok := f.accounts[email]; ok {
		copied := *account

		return &copied, nil
	}

	return nil, repository.ErrAccountNotFound
}

func (f *fakeAccountRepo) Create(_ context.Context, input *repository.CreateAccountInput) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, exists := f.accounts[input.Email]; exists {
		return nil, errors.New("email already exists")
	}

	f.nextID++
	account := &entity.Account{
		ID:    "acc-" + input.Email,
		Email: input.Email,
		Name:  input.Name,
	}
	f.accounts[input.Email] = account
	copied := *account

	return &copied, nil
}

func (f *fakeAccountRepo) FindByID(_ context.Context, id string) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, account := range f.accounts {
		if account.ID == id {
			copied := *account

			return &copied, nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (f *fakeAccountRepo) seed(account *entity.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[account.Email] = account
}

// fakeWalletRepo is an in-memory WalletRepository keyed by user id.
type fakeWalletRepo struct {
	mu      sync.Mutex
	records map[string]*entity.WalletRecord
	nextID  int

	available bool
	createErr error
	setErr    error
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{records: make(map[string]*entity.WalletRecord), available: true}
}

func (f *fakeWalletRepo) Available(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.available
}

func (f *fakeWalletRepo) FindByUserID(_ context.Context, userID string) (*entity.WalletRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if record, ok := f.records[userID]; ok {
		copied := *record

		return &copied, nil
	}

	return nil, repository.ErrWalletNotFound
}

func (f *fakeWalletRepo) Create(_ context.Context, userID string) (*entity.WalletRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}

	f.nextID++
	record := &entity.WalletRecord{ID: "wallet-" + userID, UserID: userID}
	f.records[userID] = record
	copied := *record

	return &copied, nil
}

func (f *fakeWalletRepo) SetAddress(_ context.Context, recordID, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return f.setErr
	}
	for _, record := range f.records {
		if record.ID == recordID {
			record.WalletAddress = address

			return nil
		}
	}

	return repository.ErrWalletNotFound
}

func (f *fakeWalletRepo) seed(record *entity.WalletRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.UserID] = record
}

// fakeTokenService issues deterministic tokens for assertions.
type fakeTokenService struct {
	issueErr error
}

func (f *fakeTokenService) IssueSession(accountID string, isGuest bool) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	if isGuest {
		return "guest-token-" + accountID, nil
	}

	return "token-" + accountID, nil
}

func (f *fakeTokenService) ValidateSession(token string) (*service.SessionClaims, error) {
	return nil, errors.New("not implemented")
}

// fakeEngine counts wallet creations.
type fakeEngine struct {
	mu        sync.Mutex
	created   int
	address   string
	createErr error
	balance   *entity.Balance
	getErr    error
}

func (f *fakeEngine) CreateBackendWallet(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return "", f.createErr
	}
	f.created++

	return f.address, nil
}

func (f *fakeEngine) GetBalance(_ context.Context, address string) (*entity.Balance, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.balance != nil {
		return f.balance, nil
	}

	return &entity.Balance{WalletAddress: address, Symbol: "ETH", DisplayValue: "1.0"}, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu         sync.Mutex
	events     []*service.WalletProvisionEvent
	publishErr error
}

func (f *fakePublisher) PublishWalletProvisionEvent(_ context.Context, event *service.WalletProvisionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.publishErr != nil {
		return f.publishErr
	}
	f.events = append(f.events, event)

	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) published() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.events)
}

// fakeQRService returns a fixed payload.
type fakeQRService struct {
	err error
}

func (f *fakeQRService) GenerateWalletQR(address string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}

	return []byte("png:" + address), nil
}

// fakeProvider is a scriptable AuthProvider.
type fakeProvider struct {
	providerType entity.ProviderType
	configured   bool
	available    bool
	initErr      error
	identity     *entity.UnifiedIdentity
	authErr      error
	logoutErr    error

	initCalls int
}

func (f *fakeProvider) Type() entity.ProviderType { return f.providerType }

func (f *fakeProvider) Initialize(context.Context) error {
	f.initCalls++
	if f.initErr != nil {
		return f.initErr
	}
	f.available = true

	return nil
}

func (f *fakeProvider) IsConfigured() bool { return f.configured }
func (f *fakeProvider) IsAvailable() bool  { return f.available }

func (f *fakeProvider) Authenticate(context.Context, json.RawMessage) (*entity.UnifiedIdentity, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}

	return f.identity, nil
}

func (f *fakeProvider) Logout(context.Context) error { return f.logoutErr }
