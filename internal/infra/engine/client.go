// Package engine talks to the custodial wallet engine's HTTP API.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"tokenpath/config"
	"tokenpath/internal/domain/entity"
	"tokenpath/internal/domain/service"

	"github.com/pkg/errors"
)

const requestTimeout = 30 * time.Second

// client implements service.WalletEngine over HTTP.
type client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient is the constructor for the wallet engine client.
func NewClient(cfg *config.Config) (service.WalletEngine, error) {
	if cfg.Engine == nil || cfg.Engine.URL == "" {
		return nil, errors.New("wallet engine URL must be provided")
	}

	return &client{
		baseURL:     cfg.Engine.URL,
		accessToken: cfg.Engine.AccessToken,
		httpClient:  &http.Client{Timeout: requestTimeout},
	}, nil
}

// CreateBackendWallet asks the engine to provision a custodial wallet and
// returns its address.
func (c *client) CreateBackendWallet(ctx context.Context) (string, error) {
	var result struct {
		Result struct {
			WalletAddress string `json:"walletAddress"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/wallets", map[string]any{}, &result); err != nil {
		return "", errors.Wrap(err, "failed to create backend wallet")
	}
	if result.Result.WalletAddress == "" {
		return "", errors.New("wallet engine returned no address")
	}

	return result.Result.WalletAddress, nil
}

// GetBalance fetches the native token balance of a wallet address.
func (c *client) GetBalance(ctx context.Context, address string) (*entity.Balance, error) {
	var result struct {
		Result entity.Balance `json:"result"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/wallets/"+address+"/balance", nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to fetch wallet balance")
	}

	balance := result.Result
	if balance.WalletAddress == "" {
		balance.WalletAddress = address
	}

	return &balance, nil
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "wallet engine request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read wallet engine response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("wallet engine returned %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, "failed to decode wallet engine response")
		}
	}

	return nil
}

// noopEngine stands in when no engine is configured. Provisioning fails but
// balance reads degrade to the zero value.
type noopEngine struct{}

// NewNoopEngine returns a WalletEngine for deployments without a configured
// engine.
func NewNoopEngine() service.WalletEngine {
	return &noopEngine{}
}

func (*noopEngine) CreateBackendWallet(context.Context) (string, error) {
	return "", errors.New("wallet engine is not configured")
}

func (*noopEngine) GetBalance(_ context.Context, address string) (*entity.Balance, error) {
	balance := entity.EmptyBalance()
	balance.WalletAddress = address

	return balance, nil
}
