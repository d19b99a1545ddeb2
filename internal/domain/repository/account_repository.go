package repository

import (
	"context"

	"tokenpath/internal/domain/entity"
)

// CreateAccountInput carries the fields the record store needs to create an
// account. The shared application password doubles as the account password;
// the store hashes it, this core never does.
type CreateAccountInput struct {
	Email           string
	Name            string
	Password        string
	EmailVisibility bool // Only real provider emails are visible.
}

// AccountRepository is the contract for account records in the external store.
// Find-or-create atomicity per email is delegated to the store's uniqueness
// constraint; callers retry authentication after a create conflict.
type AccountRepository interface {
	// AuthWithPassword validates the email/password pair against the store.
	// Returns ErrAccountNotFound when the store rejects with a 400/404 so
	// callers can branch into account creation.
	AuthWithPassword(ctx context.Context, email, password string) (*entity.Account, error)

	// Create inserts a new account record.
	Create(ctx context.Context, input *CreateAccountInput) (*entity.Account, error)

	// FindByID loads an account by its record id.
	FindByID(ctx context.Context, id string) (*entity.Account, error)
}
