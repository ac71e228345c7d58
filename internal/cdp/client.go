// Package cdp is a minimal Chrome DevTools Protocol client.
//
// Discovery goes over the browser's HTTP debugging endpoint (/json/version,
// /json/list); page driving goes over a [Conn], a websocket carrying CDP
// JSON-RPC. Only the handful of domains the automation driver needs are
// wrapped: Runtime.evaluate, Page.navigate, and the DOM calls used to attach
// a video file to a file input.
package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// VersionInfo is the browser's /json/version response.
type VersionInfo struct {
	Browser              string `json:"Browser"`
	ProtocolVersion      string `json:"Protocol-Version"`
	UserAgent            string `json:"User-Agent"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// PageTarget is one entry of the browser's /json/list response.
type PageTarget struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// Client talks to a local browser's debugging endpoint.
type Client struct {
	host string
	http *http.Client
}

// NewClient creates a client probing endpoints on the given host
// (typically 127.0.0.1).
func NewClient(host string) *Client {
	return &Client{
		host: host,
		http: &http.Client{Timeout: 3 * time.Second},
	}
}

// Version fetches /json/version from the debugging port. A successful response
// is the liveness signal for an automation-capable browser.
func (c *Client) Version(ctx context.Context, port int) (*VersionInfo, error) {
	var info VersionInfo
	if err := c.getJSON(ctx, port, "/json/version", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Alive reports whether a live debugging endpoint answers on the port.
func (c *Client) Alive(ctx context.Context, port int) bool {
	_, err := c.Version(ctx, port)
	return err == nil
}

// Pages lists the browser's open page targets, excluding devtools and
// extension targets.
func (c *Client) Pages(ctx context.Context, port int) ([]PageTarget, error) {
	var targets []PageTarget
	if err := c.getJSON(ctx, port, "/json", &targets); err != nil {
		return nil, err
	}

	pages := targets[:0]
	for _, t := range targets {
		if t.Type == "page" {
			pages = append(pages, t)
		}
	}
	return pages, nil
}

func (c *Client) getJSON(ctx context.Context, port int, path string, out any) error {
	url := fmt.Sprintf("http://%s:%d%s", c.host, port, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("debugging endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("debugging endpoint returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
