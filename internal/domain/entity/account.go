// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"
)

// Account is a user record in the external record store. The store owns the
// schema; this entity carries only the fields the auth core reads and writes.
type Account struct {
	ID        string    // Record id assigned by the store.
	Email     string    // Login identifier. Synthesized for providers without email.
	Name      string    // Display name.
	CreatedAt time.Time // Timestamp of when the record was created.
	UpdatedAt time.Time // Timestamp of the last modification.
}

// IsGuest reports whether this account was provisioned anonymously.
// Guest accounts are keyed by a synthesized guest email.
func (a *Account) IsGuest() bool {
	return strings.HasSuffix(a.Email, "@guest.local")
}

// WalletRecord links an account to its custodial wallet, one-to-one.
// WalletAddress stays empty until the wallet engine has minted an address;
// the record is created eagerly so provisioning can be retried.
type WalletRecord struct {
	ID            string    // Record id assigned by the store.
	UserID        string    // The account this wallet belongs to.
	WalletAddress string    // Minted address, empty while provisioning is pending.
	CreatedAt     time.Time // Timestamp of when the record was created.
	UpdatedAt     time.Time // Timestamp of the last modification.
}

// Provisioned reports whether the wallet has a usable address.
func (w *WalletRecord) Provisioned() bool {
	return w != nil && w.WalletAddress != ""
}
