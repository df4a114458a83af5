// Package imagefetch checks and downloads product images and packs them into
// a ZIP archive of thumbnailed PNGs.
package imagefetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultUserAgent    = "pidformatter/1.0"
	defaultCheckTimeout = 4 * time.Second
	defaultFetchTimeout = 10 * time.Second
	maxImageBytes       = 32 << 20
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	UserAgent    string
	CheckTimeout time.Duration
	FetchTimeout time.Duration
	HTTPClient   httpDoer
}

// Client talks to the image host. Timeouts are applied per request.
type Client struct {
	httpClient   httpDoer
	userAgent    string
	checkTimeout time.Duration
	fetchTimeout time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{}
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	checkTimeout := cfg.CheckTimeout
	if checkTimeout <= 0 {
		checkTimeout = defaultCheckTimeout
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	return &Client{
		httpClient:   doer,
		userAgent:    userAgent,
		checkTimeout: checkTimeout,
		fetchTimeout: fetchTimeout,
	}
}

// Check reports whether a HEAD request for url answers 200 OK.
func (c *Client) Check(ctx context.Context, url string) bool {
	if strings.TrimSpace(url) == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// Fetch downloads url and returns the body of a 200 OK response.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("fetch %s: image larger than %d bytes", url, maxImageBytes)
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "image/*, */*")
	return c.httpClient.Do(req)
}
