package telegram

import (
	"testing"
	"time"

	"tokenpath/internal/domain/entity"
	domainerrors "tokenpath/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11"

func signedLoginData(t *testing.T, now time.Time) *entity.TelegramLoginData {
	t.Helper()

	data := &entity.TelegramLoginData{
		ID:        987654321,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		PhotoURL:  "https://t.me/i/userpic/ada.jpg",
		AuthDate:  now.Unix(),
	}
	data.Hash = Sign(data.CanonicalString(), testBotToken)

	return data
}

func TestVerify_ValidSignature(t *testing.T) {
	now := time.Now()
	data := signedLoginData(t, now)

	err := Verify(data, testBotToken, now)
	assert.NoError(t, err)
}

func TestVerify_MutatedFieldsFail(t *testing.T) {
	now := time.Now()

	mutations := map[string]func(*entity.TelegramLoginData){
		"id":         func(d *entity.TelegramLoginData) { d.ID++ },
		"first_name": func(d *entity.TelegramLoginData) { d.FirstName = "Eve" },
		"last_name":  func(d *entity.TelegramLoginData) { d.LastName = "Mallory" },
		"username":   func(d *entity.TelegramLoginData) { d.Username = "eve" },
		"photo_url":  func(d *entity.TelegramLoginData) { d.PhotoURL = "https://t.me/i/userpic/eve.jpg" },
		"auth_date":  func(d *entity.TelegramLoginData) { d.AuthDate -= 10 },
	}

	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			data := signedLoginData(t, now)
			mutate(data)

			err := Verify(data, testBotToken, now)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrSignatureMismatch)
		})
	}
}

func TestVerify_TamperedHash(t *testing.T) {
	now := time.Now()
	data := signedLoginData(t, now)
	data.Hash = "deadbeef" + data.Hash[8:]

	err := Verify(data, testBotToken, now)
	assert.ErrorIs(t, err, domainerrors.ErrSignatureMismatch)
}

func TestVerify_WrongBotToken(t *testing.T) {
	now := time.Now()
	data := signedLoginData(t, now)

	err := Verify(data, "999999:other-bot-token", now)
	assert.ErrorIs(t, err, domainerrors.ErrSignatureMismatch)
}

func TestVerify_FreshnessBoundary(t *testing.T) {
	now := time.Now()

	// Exactly 3600 seconds old is still accepted.
	data := signedLoginData(t, now.Add(-3600*time.Second))
	assert.NoError(t, Verify(data, testBotToken, now))

	// One second past the window is rejected before any hash work.
	expired := signedLoginData(t, now.Add(-3601*time.Second))
	err := Verify(expired, testBotToken, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrSignatureExpired)
}

func TestCanonicalString_SkipsEmptyOptionalFields(t *testing.T) {
	data := &entity.TelegramLoginData{
		ID:        42,
		FirstName: "Grace",
		AuthDate:  1700000000,
	}

	assert.Equal(t, "auth_date=1700000000\nfirst_name=Grace\nid=42", data.CanonicalString())
}

func TestCanonicalString_AllFieldsSorted(t *testing.T) {
	data := &entity.TelegramLoginData{
		ID:        42,
		FirstName: "Grace",
		LastName:  "Hopper",
		Username:  "grace",
		PhotoURL:  "https://t.me/i/userpic/grace.jpg",
		AuthDate:  1700000000,
	}

	expected := "auth_date=1700000000\n" +
		"first_name=Grace\n" +
		"id=42\n" +
		"last_name=Hopper\n" +
		"photo_url=https://t.me/i/userpic/grace.jpg\n" +
		"username=grace"
	assert.Equal(t, expected, data.CanonicalString())
}
