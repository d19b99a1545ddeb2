// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// ProviderType identifies an external authentication provider.
type ProviderType string

const (
	// ProviderTypeLine is the LINE mini-app (LIFF) provider.
	ProviderTypeLine ProviderType = "line"
	// ProviderTypeTelegram is the Telegram login-widget provider.
	ProviderTypeTelegram ProviderType = "telegram"
)

// SupportedProviders lists every provider this system can authenticate with,
// in registration order. The order matters for default-provider selection.
func SupportedProviders() []ProviderType {
	return []ProviderType{ProviderTypeLine, ProviderTypeTelegram}
}

// ParseProviderType converts a route parameter into a ProviderType.
func ParseProviderType(raw string) (ProviderType, bool) {
	switch ProviderType(strings.ToLower(raw)) {
	case ProviderTypeLine:
		return ProviderTypeLine, true
	case ProviderTypeTelegram:
		return ProviderTypeTelegram, true
	default:
		return "", false
	}
}

// UnifiedIdentity is the provider-agnostic identity extracted from a raw
// provider credential. It is built fresh on every login attempt and is never
// persisted as-is; it is only projected into an account record.
type UnifiedIdentity struct {
	ID       string       // Provider-scoped subject identifier. Always non-empty.
	Email    string       // Real email when the provider supplies one, otherwise empty.
	Name     string       // Display name, may be empty.
	Avatar   string       // Avatar URL, may be empty.
	Provider ProviderType // The provider this identity came from.
}

// AccountEmail returns the email the identity maps to in the record store.
// Providers without email get a synthesized, provider-scoped address so that
// the store's email uniqueness still keys the account.
func (i *UnifiedIdentity) AccountEmail() string {
	if i.Email != "" {
		return i.Email
	}

	return fmt.Sprintf("%s@%s.local", i.ID, i.Provider)
}

// DisplayName returns the identity's name, falling back to a provider-tagged
// placeholder when the provider supplied none.
func (i *UnifiedIdentity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Email != "" {
		return strings.SplitN(i.Email, "@", 2)[0]
	}

	return string(i.Provider) + " User"
}

// LineIDToken holds the claims of a LINE LIFF ID token.
type LineIDToken struct {
	Iss     string `json:"iss,omitempty"`
	Sub     string `json:"sub"`
	Aud     string `json:"aud,omitempty"`
	Exp     int64  `json:"exp,omitempty"`
	Iat     int64  `json:"iat,omitempty"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// TelegramLoginData is the payload delivered by the Telegram login widget.
// Hash is a hex HMAC-SHA256 signature over the canonical string of every
// other populated field.
type TelegramLoginData struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	AuthDate  int64  `json:"auth_date"`
	Hash      string `json:"hash"`
}

// CanonicalString builds the signing payload defined by the provider:
// every populated field except hash, keys sorted lexicographically,
// joined as "key=value" lines with '\n'.
func (d *TelegramLoginData) CanonicalString() string {
	// Fields are listed in lexicographic key order so no sort is needed.
	pairs := make([]string, 0, 6)
	pairs = append(pairs, "auth_date="+strconv.FormatInt(d.AuthDate, 10))
	pairs = append(pairs, "first_name="+d.FirstName)
	pairs = append(pairs, "id="+strconv.FormatInt(d.ID, 10))
	if d.LastName != "" {
		pairs = append(pairs, "last_name="+d.LastName)
	}
	if d.PhotoURL != "" {
		pairs = append(pairs, "photo_url="+d.PhotoURL)
	}
	if d.Username != "" {
		pairs = append(pairs, "username="+d.Username)
	}

	return strings.Join(pairs, "\n")
}

// FullName joins first and last name the way the widget shows them.
func (d *TelegramLoginData) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}

	return d.FirstName + " " + d.LastName
}

// ProviderAvailability reports which providers currently have usable
// configuration. Recomputed on orchestrator initialization, never persisted.
type ProviderAvailability struct {
	Line     bool `json:"line"`
	Telegram bool `json:"telegram"`
}
