package recordstore

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"tokenpath/internal/domain/entity"
	"tokenpath/internal/domain/repository"

	"github.com/pkg/errors"
)

// accountRecord mirrors the record store's user collection schema.
type accountRecord struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Created string `json:"created"`
	Updated string `json:"updated"`
}

func (r *accountRecord) toEntity() *entity.Account {
	return &entity.Account{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		CreatedAt: parseRecordTime(r.Created),
		UpdatedAt: parseRecordTime(r.Updated),
	}
}

// parseRecordTime tolerates the store's space-separated timestamp layout as
// well as RFC 3339.
func parseRecordTime(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05.000Z"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	return time.Time{}
}

// accountRepository implements repository.AccountRepository against the
// record store's users collection.
type accountRepository struct {
	client *Client
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(client *Client) repository.AccountRepository {
	return &accountRepository{client: client}
}

// AuthWithPassword exchanges email and password for the account record.
// Unknown accounts and wrong passwords both surface as ErrAccountNotFound so
// the caller can fall through to account creation.
func (r *accountRepository) AuthWithPassword(ctx context.Context, email, password string) (*entity.Account, error) {
	body := map[string]string{
		"identity": email,
		"password": password,
	}

	var result struct {
		Record accountRecord `json:"record"`
	}
	err := r.client.do(ctx, http.MethodPost, "/api/collections/users/auth-with-password", body, &result)
	if err != nil {
		var clientErr *ClientError
		if errors.As(err, &clientErr) && (clientErr.Status == http.StatusBadRequest || clientErr.Status == http.StatusNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to authenticate account")
	}

	return result.Record.toEntity(), nil
}

// Create registers a new account record.
func (r *accountRepository) Create(ctx context.Context, input *repository.CreateAccountInput) (*entity.Account, error) {
	body := map[string]any{
		"email":           input.Email,
		"name":            input.Name,
		"password":        input.Password,
		"passwordConfirm": input.Password,
		"emailVisibility": input.EmailVisibility,
	}

	var record accountRecord
	if err := r.client.do(ctx, http.MethodPost, "/api/collections/users/records", body, &record); err != nil {
		return nil, errors.Wrap(err, "failed to create account")
	}

	return record.toEntity(), nil
}

// FindByID fetches an account record by its identifier.
func (r *accountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	var record accountRecord
	err := r.client.do(ctx, http.MethodGet, "/api/collections/users/records/"+url.PathEscape(id), nil, &record)
	if err != nil {
		var clientErr *ClientError
		if errors.As(err, &clientErr) && clientErr.Status == http.StatusNotFound {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to fetch account")
	}

	return record.toEntity(), nil
}
