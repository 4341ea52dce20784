// Package fetch provides the HTTP retrieval collaborator used by the image
// pipeline. Responses are size-capped so an adversarial host cannot exhaust
// memory through a single image URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/adtrail/adtrail/pkg/formatting"
)

// Client retrieves the bytes behind a URL.
type Client interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, string, error)
}

type client struct {
	http      *http.Client
	maxBody   int64
	userAgent string
}

// New creates a fetch client from the given configuration.
func New(cfg *Config) Client {
	return &client{
		http: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		maxBody:   cfg.MaxBodyBytes(),
		userAgent: cfg.UserAgent,
	}
}

// Fetch retrieves the response body and content type for rawURL.
// Non-2xx responses are errors.
func (c *client) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, "", fmt.Errorf("read body %s: %w", rawURL, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, "", fmt.Errorf("fetch %s: body exceeds %s", rawURL, formatting.FormatBytes(c.maxBody, 0))
	}

	return body, resp.Header.Get("Content-Type"), nil
}
