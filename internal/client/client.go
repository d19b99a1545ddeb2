// Package client is the Go consumer of the auth API. It mirrors the
// lifecycle a front end goes through: resolve the current session, fall back
// to a guest session, log in with a real provider, log out.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"tokenpath/internal/domain/entity"

	"github.com/pkg/errors"
)

const requestTimeout = 15 * time.Second

// User is the account state the API reports for the current session.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	IsGuest       bool   `json:"isGuest"`
	WalletAddress string `json:"walletAddress,omitempty"`
	WalletPending bool   `json:"walletPending,omitempty"`
}

// apiEnvelope matches the server's unified response structure.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

// Client talks to the auth API. The session cookie lives in the client's
// cookie jar, so callers never touch tokens.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu           sync.Mutex
	guestCreated bool
}

// New creates a client for the given API base URL.
func New(baseURL string, logger *slog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cookie jar")
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
		logger: logger,
	}, nil
}

// Me resolves the current session's account. On a 401 it provisions a guest
// session once per client lifetime and retries, so a fresh client always
// ends up with some identity.
func (c *Client) Me(ctx context.Context) (*User, error) {
	user, status, err := c.fetchMe(ctx)
	if err != nil {
		return nil, err
	}
	if status != http.StatusUnauthorized {
		return user, nil
	}

	if err := c.provisionGuestOnce(ctx); err != nil {
		return nil, err
	}

	user, status, err = c.fetchMe(ctx)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, errors.New("session rejected after guest provisioning")
	}

	return user, nil
}

func (c *Client) fetchMe(ctx context.Context) (*User, int, error) {
	var user User
	status, err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user)
	if err != nil {
		return nil, 0, err
	}
	if status == http.StatusUnauthorized {
		return nil, status, nil
	}
	if status != http.StatusOK {
		return nil, status, errors.Errorf("unexpected status %d from /api/auth/me", status)
	}

	return &user, status, nil
}

// provisionGuestOnce creates a guest session at most once per client. A
// second 401 after guest provisioning is a real failure, not a retry signal.
func (c *Client) provisionGuestOnce(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.guestCreated {
		return errors.New("not authenticated and guest session already provisioned")
	}

	status, err := c.do(ctx, http.MethodPost, "/api/auth/guest", nil, nil)
	if err != nil {
		return errors.Wrap(err, "failed to provision guest session")
	}
	if status != http.StatusOK {
		return errors.Errorf("guest provisioning returned status %d", status)
	}
	c.guestCreated = true

	c.logger.Info("Provisioned guest session")

	return nil
}

// Login authenticates with a provider credential. The session cookie from a
// successful login replaces any guest session in the jar.
func (c *Client) Login(ctx context.Context, provider entity.ProviderType, credential any) (*User, error) {
	body := map[string]any{"authData": credential}
	if provider == entity.ProviderTypeLine {
		body = map[string]any{"idToken": credential}
	}

	var data struct {
		Message string `json:"message"`
		User    User   `json:"user"`
	}
	status, err := c.do(ctx, http.MethodPost, "/api/auth/"+string(provider), body, &data)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, errors.Errorf("login with %s returned status %d", provider, status)
	}

	return &data.User, nil
}

// Logout drops the local session before telling the server. A network
// failure on the server call never leaves the client logged in.
func (c *Client) Logout(ctx context.Context, provider entity.ProviderType) error {
	// Local teardown happens first and unconditionally.
	jar, jarErr := cookiejar.New(nil)
	if jarErr == nil {
		c.httpClient.Jar = jar
	}
	c.mu.Lock()
	c.guestCreated = false
	c.mu.Unlock()

	status, err := c.do(ctx, http.MethodDelete, "/api/auth/"+string(provider), nil, nil)
	if err != nil {
		c.logger.Warn("Server logout failed, local session already cleared",
			slog.Any("error", err),
		)

		return nil
	}
	if status != http.StatusOK {
		c.logger.Warn("Server logout returned non-success status",
			slog.Int("status", status),
		)
	}

	return nil
}

// do issues a JSON request and decodes the envelope's data field into out
// for 2xx responses. The HTTP status is always returned so callers can
// branch on 401.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, errors.Wrap(err, "failed to read response")
	}

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var envelope apiEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return resp.StatusCode, errors.Wrap(err, "failed to decode response envelope")
		}
		if len(envelope.Data) > 0 {
			if err := json.Unmarshal(envelope.Data, out); err != nil {
				return resp.StatusCode, errors.Wrap(err, "failed to decode response data")
			}
		}
	}

	return resp.StatusCode, nil
}
