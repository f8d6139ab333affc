package webclient

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/samber/oops"
)

const defaultTimeout = 30 * time.Second

// Client fetches raw page content over HTTP.
type Client struct {
	http *http.Client
}

// New creates a web client with a bounded request timeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Get fetches url and returns the response body as a string.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", oops.With("url", url, "context", "building request").Wrap(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", oops.With("url", url, "context", "executing request").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", oops.With("url", url, "status", resp.StatusCode).New("unexpected response status")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", oops.With("url", url, "context", "reading response body").Wrap(err)
	}

	return string(body), nil
}
