// Package recordstore provides repository implementations backed by the
// external record database's HTTP API.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tokenpath/config"

	"github.com/pkg/errors"
)

const requestTimeout = 10 * time.Second

// ClientError carries the upstream status code so callers can map it onto
// domain errors.
type ClientError struct {
	Status  int
	Message string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("record store returned %d: %s", e.Status, e.Message)
}

// UpstreamStatus implements repository.UpstreamStatusError.
func (e *ClientError) UpstreamStatus() int {
	return e.Status
}

// UpstreamMessage implements repository.UpstreamStatusError.
func (e *ClientError) UpstreamMessage() string {
	return e.Message
}

// Client is a thin HTTP client for the record store. Repositories in this
// package share it.
type Client struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
}

// NewClient is the constructor for Client.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.RecordStore == nil || cfg.RecordStore.URL == "" {
		return nil, errors.New("record store URL must be provided")
	}

	return &Client{
		baseURL:    cfg.RecordStore.URL,
		adminToken: cfg.RecordStore.AdminToken,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

// do issues a JSON request against the record store and decodes the response
// into out when out is non-nil. Non-2xx responses become *ClientError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
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
	if c.adminToken != "" {
		req.Header.Set("Authorization", c.adminToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "record store request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read record store response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ClientError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, "failed to decode record store response")
		}
	}

	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}

	return string(raw)
}
