package digiflazz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// PrepaidPriceListPath lists prepaid products on the backend.
	PrepaidPriceListPath = "/digiflazz/prepaid-price-list"
	// PostpaidPriceListPath lists postpaid products on the backend.
	PostpaidPriceListPath = "/digiflazz/postpaid-price-list"
	// SyncPrepaidPath asks the backend to pull the prepaid list from Digiflazz.
	SyncPrepaidPath = "/digiflazz/sync-prepaid-price-list"
)

// Client is a minimal HTTP client for the PPOB backend's Digiflazz routes.
// The backend holds the provider credentials; the portal only forwards the
// caller's bearer token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient constructs a backend client. A zero timeout falls back to 30s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		debug:      os.Getenv("ENV") == "development",
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetPriceList fetches the raw price-list envelope at path, forwarding filters
// verbatim as query parameters.
func (c *Client) GetPriceList(ctx context.Context, token, path string, filters url.Values) (*Envelope, error) {
	var env Envelope
	if err := c.doRequest(ctx, http.MethodGet, path, token, filters, nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &APIError{Message: env.Message}
	}
	return &env, nil
}

// SyncPrepaid triggers a prepaid price-list sync on the backend.
func (c *Client) SyncPrepaid(ctx context.Context, token string) (*SyncResponse, error) {
	var resp SyncResponse
	if err := c.doRequest(ctx, http.MethodPost, SyncPrepaidPath, token, nil, struct{}{}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Message: resp.Message}
	}
	return &resp, nil
}

// doRequest performs one HTTP call against the backend with the standard
// bearer/JSON headers and decodes the JSON response into result. It never
// retries.
func (c *Client) doRequest(ctx context.Context, method, path, token string, query url.Values, body any, result any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	if c.debug {
		ev := log.Debug().Str("method", method).Str("endpoint", endpoint)
		if payload != nil {
			ev = ev.RawJSON("request", payload)
		}
		ev.Msg("[BACKEND] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: "read", Err: err}
	}

	if c.debug {
		log.Debug().
			Str("endpoint", path).
			Int("status_code", resp.StatusCode).
			Int("bytes", len(respBody)).
			Msg("[BACKEND] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Status: resp.StatusCode}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return &NetworkError{Op: "decode", Err: err}
	}
	return nil
}
