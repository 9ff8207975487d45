// Package factory calls the external pizza factory that fulfils orders and
// signs a verification JWT for each one.
package factory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iliyamo/pizza-service/internal/model"
)

// ErrRejected is returned when the factory answers with a non-2xx status.
// The Result still carries the report URL the factory sent, if any.
var ErrRejected = errors.New("factory rejected order")

// Client posts orders to the factory's /api/order endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Diner identifies who placed the order.
type Diner struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderRequest struct {
	Diner Diner       `json:"diner"`
	Order model.Order `json:"order"`
}

// Result is the factory's answer.  JWT is empty when the order was
// rejected.
type Result struct {
	JWT       string `json:"jwt"`
	ReportURL string `json:"reportUrl"`
	Message   string `json:"message"`
}

// BaseURL returns the configured factory address.
func (c *Client) BaseURL() string { return c.baseURL }

// Fulfill sends the order to the factory.  A transport failure returns a nil
// Result; a rejection returns the decoded Result together with ErrRejected.
func (c *Client) Fulfill(ctx context.Context, diner Diner, order model.Order) (*Result, error) {
	body, err := json.Marshal(orderRequest{Diner: diner, Order: order})
	if err != nil {
		return nil, fmt.Errorf("factory: encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/order", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("factory: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("factory: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("factory: read response: %w", err)
	}

	var res Result
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &res); err != nil && resp.StatusCode/100 == 2 {
			return nil, fmt.Errorf("factory: decode response: %w", err)
		}
	}
	if resp.StatusCode/100 != 2 {
		return &res, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	if res.JWT == "" {
		return &res, fmt.Errorf("%w: empty jwt", ErrRejected)
	}
	return &res, nil
}
