// Package telegram implements the Telegram login-widget authentication
// provider and the server-side signature verification of its payloads.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"tokenpath/internal/domain/constants"
	"tokenpath/internal/domain/entity"
	domainerrors "tokenpath/internal/domain/errors"
)

// Verify checks a login-widget payload against the bot token using the
// provider's published scheme: the payload is fresh for at most one hour
// (auth_date exactly 3600 seconds old still passes), and hash must equal
// HMAC-SHA256(key = SHA-256(botToken), message = canonical field string).
// Pure apart from the caller-supplied clock.
func Verify(data *entity.TelegramLoginData, botToken string, now time.Time) error {
	if now.Unix()-data.AuthDate > constants.TelegramAuthMaxAgeSeconds {
		return domainerrors.ErrSignatureExpired.WithDetails("auth_date is older than one hour")
	}

	expected := Sign(data.CanonicalString(), botToken)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(data.Hash))) {
		return domainerrors.ErrSignatureMismatch
	}

	return nil
}

// Sign computes the hex HMAC-SHA256 signature of a canonical data string,
// keyed by the SHA-256 digest of the bot token.
func Sign(dataString, botToken string) string {
	secret := sha256.Sum256([]byte(botToken))

	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(dataString))

	return hex.EncodeToString(mac.Sum(nil))
}
