package service

// SessionClaims are the verified claims carried by a session token.
type SessionClaims struct {
	AccountID string
	IsGuest   bool
}

// TokenService issues and validates the session tokens exported through the
// session cookie. One shared secret; HS256.
type TokenService interface {
	// IssueSession creates a signed session token for an account.
	IssueSession(accountID string, isGuest bool) (string, error)

	// ValidateSession checks a token's signature and expiry and returns its
	// claims.
	ValidateSession(token string) (*SessionClaims, error)
}
