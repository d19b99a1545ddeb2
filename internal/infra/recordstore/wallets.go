package recordstore

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"tokenpath/internal/domain/entity"
	"tokenpath/internal/domain/repository"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const availabilityCacheKey = "wallets-collection"

// walletRecord mirrors the record store's wallets collection schema.
type walletRecord struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	WalletAddress string `json:"walletAddress"`
	Created       string `json:"created"`
	Updated       string `json:"updated"`
}

func (r *walletRecord) toEntity() *entity.WalletRecord {
	return &entity.WalletRecord{
		ID:            r.ID,
		UserID:        r.UserID,
		WalletAddress: r.WalletAddress,
		CreatedAt:     parseRecordTime(r.Created),
		UpdatedAt:     parseRecordTime(r.Updated),
	}
}

// walletRepository implements repository.WalletRepository against the record
// store's wallets collection. The collection may not exist on older
// deployments, so availability is probed and cached.
type walletRepository struct {
	client       *Client
	availability *gocache.Cache
}

// NewWalletRepository is the constructor for walletRepository.
func NewWalletRepository(client *Client, availabilityTTL time.Duration) repository.WalletRepository {
	return &walletRepository{
		client:       client,
		availability: gocache.New(availabilityTTL, availabilityTTL*2),
	}
}

// Available reports whether the wallets collection exists. The probe result
// is cached so every login does not hit the store twice.
func (r *walletRepository) Available(ctx context.Context) bool {
	if cached, found := r.availability.Get(availabilityCacheKey); found {
		return cached.(bool)
	}

	err := r.client.do(ctx, http.MethodGet, "/api/collections/wallets/records?perPage=1", nil, nil)
	available := true
	if err != nil {
		var clientErr *ClientError
		if errors.As(err, &clientErr) && clientErr.Status == http.StatusNotFound {
			available = false
		} else {
			// Transient failures do not poison the cache.
			return false
		}
	}

	r.availability.SetDefault(availabilityCacheKey, available)

	return available
}

// FindByUserID fetches the wallet record owned by the given account.
func (r *walletRepository) FindByUserID(ctx context.Context, userID string) (*entity.WalletRecord, error) {
	if !r.Available(ctx) {
		return nil, repository.ErrWalletCollectionUnavailable
	}

	filter := url.QueryEscape(`userId="` + userID + `"`)

	var result struct {
		Items []walletRecord `json:"items"`
	}
	err := r.client.do(ctx, http.MethodGet, "/api/collections/wallets/records?perPage=1&filter="+filter, nil, &result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query wallet records")
	}
	if len(result.Items) == 0 {
		return nil, repository.ErrWalletNotFound
	}

	return result.Items[0].toEntity(), nil
}

// Create inserts a wallet record with no address yet. The address is filled
// in once the backend wallet has been provisioned.
func (r *walletRepository) Create(ctx context.Context, userID string) (*entity.WalletRecord, error) {
	if !r.Available(ctx) {
		return nil, repository.ErrWalletCollectionUnavailable
	}

	body := map[string]string{"userId": userID}

	var record walletRecord
	if err := r.client.do(ctx, http.MethodPost, "/api/collections/wallets/records", body, &record); err != nil {
		return nil, errors.Wrap(err, "failed to create wallet record")
	}

	return record.toEntity(), nil
}

// SetAddress writes the provisioned backend address onto a wallet record.
func (r *walletRepository) SetAddress(ctx context.Context, recordID, address string) error {
	body := map[string]string{"walletAddress": address}

	err := r.client.do(ctx, http.MethodPatch, "/api/collections/wallets/records/"+url.PathEscape(recordID), body, nil)
	if err != nil {
		return errors.Wrap(err, "failed to update wallet record")
	}

	return nil
}
