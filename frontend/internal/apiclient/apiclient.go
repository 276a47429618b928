package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bacilogs/bacilogs/shared/errors"
)

// APIClient talks to the Bacılogs REST API.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client
	Dialer     *websocket.Dialer
	// Reconnect is the pause before reopening a dropped post stream.
	Reconnect time.Duration
}

func New(baseURL string) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: &http.Client{Timeout: 30 * time.Second},
		Dialer:     websocket.DefaultDialer,
		Reconnect:  2 * time.Second,
	}
}

// do sends a JSON request. Transport failures are wrapped in ErrNetwork;
// the caller owns the response body.
func (c *APIClient) do(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: backend unavailable: %v", errors.ErrNetwork, err)
	}
	return resp, nil
}

// expect turns any status other than want into an ErrorWithStatusCode
// carrying the server's message.
func expect(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(bodyBytes))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &errors.ErrorWithStatusCode{Message: msg, StatusCode: resp.StatusCode}
}

func decode(resp *http.Response, v any) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
