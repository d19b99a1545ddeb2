package telegram

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"tokenpath/config"
	"tokenpath/internal/domain/entity"
	domainerrors "tokenpath/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(botUsername, botToken string) *config.Config {
	cfg := &config.Config{}
	cfg.Telegram = &config.TelegramConfig{
		BotUsername: botUsername,
		BotToken:    botToken,
	}

	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvider_InitializeWithoutUsername(t *testing.T) {
	p := NewProvider(testConfig("", ""), testLogger())

	err := p.Initialize(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProviderInitFailed)
	assert.False(t, p.IsAvailable())
	assert.False(t, p.IsConfigured())
}

func TestProvider_InitializeSuccess(t *testing.T) {
	p := NewProvider(testConfig("learnbot", testBotToken), testLogger())

	require.NoError(t, p.Initialize(context.Background()))
	assert.True(t, p.IsAvailable())
	assert.True(t, p.IsConfigured())
	assert.Equal(t, entity.ProviderTypeTelegram, p.Type())
}

func TestProvider_AuthenticateValidPayload(t *testing.T) {
	p := NewProvider(testConfig("learnbot", testBotToken), testLogger())
	require.NoError(t, p.Initialize(context.Background()))

	data := signedLoginData(t, time.Now())
	raw, err := json.Marshal(data)
	require.NoError(t, err)

	identity, err := p.Authenticate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "987654321", identity.ID)
	assert.Equal(t, "Ada Lovelace", identity.Name)
	assert.Equal(t, entity.ProviderTypeTelegram, identity.Provider)
	assert.Empty(t, identity.Email)
	assert.Equal(t, "987654321@telegram.local", identity.AccountEmail())
}

func TestProvider_AuthenticateTamperedHash(t *testing.T) {
	p := NewProvider(testConfig("learnbot", testBotToken), testLogger())
	require.NoError(t, p.Initialize(context.Background()))

	data := signedLoginData(t, time.Now())
	data.FirstName = "Eve" // invalidates the signature
	raw, err := json.Marshal(data)
	require.NoError(t, err)

	_, err = p.Authenticate(context.Background(), raw)
	assert.ErrorIs(t, err, domainerrors.ErrSignatureMismatch)
}

func TestProvider_AuthenticateWithoutBotTokenAcceptsPayload(t *testing.T) {
	// Documented fallback: no bot token means no hash validation.
	p := NewProvider(testConfig("learnbot", ""), testLogger())
	require.NoError(t, p.Initialize(context.Background()))

	data := signedLoginData(t, time.Now())
	data.Hash = "0000000000000000000000000000000000000000000000000000000000000000"
	raw, err := json.Marshal(data)
	require.NoError(t, err)

	identity, err := p.Authenticate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "987654321", identity.ID)
}

func TestProvider_AuthenticateMissingFields(t *testing.T) {
	p := NewProvider(testConfig("learnbot", testBotToken), testLogger())
	require.NoError(t, p.Initialize(context.Background()))

	cases := map[string]string{
		"empty payload":      `{}`,
		"missing hash":       `{"id":1,"first_name":"Ada","auth_date":1700000000}`,
		"missing id":         `{"first_name":"Ada","auth_date":1700000000,"hash":"ff"}`,
		"missing first_name": `{"id":1,"auth_date":1700000000,"hash":"ff"}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.Authenticate(context.Background(), json.RawMessage(payload))
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestProvider_AuthenticateMalformedJSON(t *testing.T) {
	p := NewProvider(testConfig("learnbot", testBotToken), testLogger())
	require.NoError(t, p.Initialize(context.Background()))

	_, err := p.Authenticate(context.Background(), json.RawMessage(`not json`))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestProvider_LogoutIsNoop(t *testing.T) {
	p := NewProvider(testConfig("learnbot", testBotToken), testLogger())

	assert.NoError(t, p.Logout(context.Background()))
}
