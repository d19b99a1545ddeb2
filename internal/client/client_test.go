package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tokenpath/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "pb_auth"

// testServer fakes the auth API: /api/auth/me requires the session cookie,
// guest and provider logins set it.
type testServer struct {
	*httptest.Server

	guestLogins    int
	providerLogins int
	logouts        int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{}
	mux := http.NewServeMux()

	writeData := func(w http.ResponseWriter, data any) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"code":    http.StatusOK,
			"message": "Success",
			"data":    data,
		})
	}

	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		user := User{ID: "acc-1", Email: "user@example.com"}
		if cookie.Value == "guest-token" {
			user = User{ID: "acc-g", Email: "guest_x@guest.local", IsGuest: true}
		}
		writeData(w, user)
	})

	mux.HandleFunc("POST /api/auth/guest", func(w http.ResponseWriter, _ *http.Request) {
		ts.guestLogins++
		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "guest-token", Path: "/"})
		writeData(w, map[string]any{
			"message": "Guest session created",
			"user":    User{ID: "acc-g", IsGuest: true},
		})
	})

	mux.HandleFunc("POST /api/auth/telegram", func(w http.ResponseWriter, _ *http.Request) {
		ts.providerLogins++
		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "real-token", Path: "/"})
		writeData(w, map[string]any{
			"message":  "Authentication successful",
			"provider": "telegram",
			"user":     User{ID: "acc-1", Email: "987@telegram.local"},
		})
	})

	mux.HandleFunc("DELETE /api/auth/telegram", func(w http.ResponseWriter, _ *http.Request) {
		ts.logouts++
		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", MaxAge: -1, Path: "/"})
		writeData(w, map[string]string{"message": "Logged out"})
	})

	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return ts
}

func newTestClient(t *testing.T, server *testServer) *Client {
	t.Helper()

	c, err := New(server.URL, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	return c
}

func TestMe_AutoProvisionsGuest(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	c := newTestClient(t, server)

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.True(t, user.IsGuest)
	assert.Equal(t, 1, server.guestLogins)

	// Subsequent calls ride on the existing guest session.
	user, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.True(t, user.IsGuest)
	assert.Equal(t, 1, server.guestLogins)
}

func TestLogin_ReplacesGuestSession(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	c := newTestClient(t, server)

	_, err := c.Me(context.Background())
	require.NoError(t, err)

	user, err := c.Login(context.Background(), entity.ProviderTypeTelegram, map[string]any{"id": 987})
	require.NoError(t, err)
	assert.Equal(t, "987@telegram.local", user.Email)

	// The real session cookie now wins over the guest one.
	user, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.False(t, user.IsGuest)
}

func TestLogout_ClearsLocalSessionEvenWhenServerUnreachable(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	c := newTestClient(t, server)

	_, err := c.Login(context.Background(), entity.ProviderTypeTelegram, map[string]any{"id": 987})
	require.NoError(t, err)

	server.Close()

	// Server is gone; logout must still succeed locally.
	require.NoError(t, c.Logout(context.Background(), entity.ProviderTypeTelegram))
}

func TestLogout_AllowsFreshGuestSession(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	c := newTestClient(t, server)

	_, err := c.Me(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.Logout(context.Background(), entity.ProviderTypeTelegram))

	// The guest one-shot resets on logout.
	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.True(t, user.IsGuest)
	assert.Equal(t, 2, server.guestLogins)
}
