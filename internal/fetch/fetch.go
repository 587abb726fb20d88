package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// maxBodySize caps how much of a response is read; the report page is a few
// hundred KB at most, so anything larger is a misbehaving mirror.
const maxBodySize = 8 << 20

// ErrAllMirrorsFailed is wrapped by Fetch's error when no mirror produced a
// usable response.
var ErrAllMirrorsFailed = errors.New("fetch: all mirrors failed")

// Fetcher is the markup-source capability the tracker depends on.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Client fetches the report from an ordered list of mirror URLs.
type Client struct {
	mirrors []string
	client  *http.Client
}

// New builds a Client for the given mirrors. A non-positive timeout falls
// back to the default.
func New(mirrors []string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		mirrors: mirrors,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch tries each mirror in order and returns the first successful body.
// Mirror failures are logged and the next mirror is tried; once the list is
// exhausted the last error is returned, wrapped in ErrAllMirrorsFailed.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	var lastErr error
	for _, url := range c.mirrors {
		body, err := c.get(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("fetch: %w", ctx.Err())
			}
			slog.Warn("fetch: mirror failed", "url", url, "err", err)
			lastErr = err
			continue
		}
		return body, nil
	}
	if lastErr == nil {
		return "", fmt.Errorf("%w: no mirrors configured", ErrAllMirrorsFailed)
	}
	return "", fmt.Errorf("%w: last: %v", ErrAllMirrorsFailed, lastErr)
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("empty response body")
	}
	return string(data), nil
}
