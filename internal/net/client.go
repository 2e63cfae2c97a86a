// Package net is the raw HTTP transport for OpenAI-compatible endpoints that
// have no SDK of their own (local gateways, self-hosted inference servers).
package net

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// Client holds one keep-alive connection pool bound to a base URL.
type Client struct {
	base  string
	http  tls_client.HttpClient
	agent string
}

// New builds a client for baseURL. timeout bounds one whole request.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	secs := int(timeout / time.Second)
	if secs <= 0 {
		secs = 60
	}
	hc, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(),
		tls_client.WithTimeoutSeconds(secs),
		tls_client.WithClientProfile(profiles.DefaultClientProfile),
		tls_client.WithNotFollowRedirects(),
	)
	if err != nil {
		return nil, fmt.Errorf("net: build client: %w", err)
	}
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		http:  hc,
		agent: ua,
	}, nil
}

// NewPOST builds a pre-populated JSON request for path.
func (c *Client) NewPOST(ctx context.Context, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.agent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Do forwards to the pooled client.
func (c *Client) Do(req *http.Request) (*http.Response, error) { return c.http.Do(req) }

const ua = "spellfix/1.0 (+https://github.com/Alfex4936/spellfix)"
