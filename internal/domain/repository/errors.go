// Package repository defines the contracts for the external record store
// this system depends on. The store owns its schema; these interfaces only
// describe the operations the auth core needs.
package repository

import "tokenpath/internal/errors"

var (
	// ErrAccountNotFound is returned when the store has no account for the
	// given credentials or id. Find-or-create flows branch on it.
	ErrAccountNotFound = errors.New("account not found in record store")

	// ErrWalletNotFound is returned when an account has no wallet record yet.
	ErrWalletNotFound = errors.New("wallet record not found in record store")

	// ErrWalletCollectionUnavailable is returned when the store's wallet
	// collection is not accessible. Wallet features degrade gracefully.
	ErrWalletCollectionUnavailable = errors.New("wallet collection unavailable in record store")
)

// UpstreamStatusError is implemented by store errors that carry the
// upstream HTTP status. Callers use it to surface the store's own status
// instead of a flat internal error.
type UpstreamStatusError interface {
	error
	UpstreamStatus() int
	UpstreamMessage() string
}
