// Package payments talks to the checkout backend that fronts the actual
// payment provider. The planner never holds payment credentials; it asks
// the backend for a redirect URL and later asks it to verify the opaque
// reference the provider attached on return.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// Client implements capability.PaymentProvider against a REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a payments client. A zero timeout defaults to 10s.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// CreateCheckoutSession asks the backend to open a checkout for the
// session and returns the redirect URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, id types.ID) (string, error) {
	body, err := json.Marshal(map[string]string{"session_id": id.String()})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("checkout backend returned %s", resp.Status)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding checkout response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("checkout backend returned no redirect URL")
	}
	return out.URL, nil
}

// VerifySession confirms that the referenced checkout completed and was
// paid. Anything but a paid verdict is an error.
func (c *Client) VerifySession(ctx context.Context, id types.ID, sessionRef string) error {
	body, err := json.Marshal(map[string]string{
		"session_id":   id.String(),
		"checkout_ref": sessionRef,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/verify", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verification backend returned %s", resp.Status)
	}

	var out struct {
		Paid bool `json:"paid"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return fmt.Errorf("decoding verification response: %w", err)
	}
	if !out.Paid {
		return fmt.Errorf("checkout %s is not paid", sessionRef)
	}
	return nil
}
