package session

import (
	"testing"
	"time"

	"tokenpath/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Session = secret

	return cfg
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(testConfig(""))
	assert.Error(t, err)
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testConfig("test-secret"))
	require.NoError(t, err)

	token, err := svc.IssueSession("account-123", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateSession(token)
	require.NoError(t, err)
	assert.Equal(t, "account-123", claims.AccountID)
	assert.False(t, claims.IsGuest)
}

func TestJWTService_GuestFlagRoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testConfig("test-secret"))
	require.NoError(t, err)

	token, err := svc.IssueSession("guest-456", true)
	require.NoError(t, err)

	claims, err := svc.ValidateSession(token)
	require.NoError(t, err)
	assert.Equal(t, "guest-456", claims.AccountID)
	assert.True(t, claims.IsGuest)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewJWTService(testConfig("secret-a"))
	require.NoError(t, err)
	verifier, err := NewJWTService(testConfig("secret-b"))
	require.NoError(t, err)

	token, err := issuer.IssueSession("account-123", false)
	require.NoError(t, err)

	_, err = verifier.ValidateSession(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	svc := &jwtService{secret: "test-secret", ttl: -time.Hour}

	token, err := svc.IssueSession("account-123", false)
	require.NoError(t, err)

	_, err = svc.ValidateSession(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsWrongTokenType(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testConfig("test-secret"))
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":  "account-123",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
		"type": "refresh",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateSession(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsUnsignedToken(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testConfig("test-secret"))
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":  "account-123",
		"exp":  time.Now().Add(time.Hour).Unix(),
		"type": "session",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateSession(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testConfig("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateSession("not-a-token")
	assert.Error(t, err)
}
