// Package session implements the session token service backing the auth
// cookie.
package session

import (
	"time"

	"tokenpath/config"
	"tokenpath/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const sessionTTL = time.Hour * 24 * 7

// jwtService is a concrete implementation of the TokenService interface
// using the JWT standard.
type jwtService struct {
	secret string        // Secret key for signing session tokens.
	ttl    time.Duration // Time-to-live for session tokens.
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Session == "" {
		return nil, errors.New("session secret must be provided")
	}

	return &jwtService{
		secret: cfg.SecretKey.Session,
		ttl:    sessionTTL,
	}, nil
}

// IssueSession creates a signed session token for an account.
func (s *jwtService) IssueSession(accountID string, isGuest bool) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   accountID,          // Subject (who the token is for)
		"iat":   now.Unix(),         // Issued At
		"exp":   now.Add(s.ttl).Unix(), // Expiration Time
		"type":  "session",          // Token purpose
		"guest": isGuest,            // Guest accounts carry the flag in the token
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// ValidateSession checks the token's signature and expiry and returns its
// claims.
func (s *jwtService) ValidateSession(tokenString string) (*service.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse session token")
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse session token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("session token missing subject")
	}
	if tokenType, _ := claims["type"].(string); tokenType != "session" {
		return nil, errors.New("unexpected token type")
	}
	isGuest, _ := claims["guest"].(bool)

	return &service.SessionClaims{
		AccountID: sub,
		IsGuest:   isGuest,
	}, nil
}
