package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const defaultUserAgent = "pidformatter/1.0"

var sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads CSV tables over HTTP.
type Fetcher struct {
	httpClient httpDoer
	userAgent  string
}

// NewFetcher returns a Fetcher. A nil doer uses an http.Client with timeout.
func NewFetcher(doer httpDoer, userAgent string, timeout time.Duration) *Fetcher {
	if doer == nil {
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		doer = &http.Client{Timeout: timeout}
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Fetcher{httpClient: doer, userAgent: userAgent}
}

// FetchCSV downloads rawURL and parses the body as CSV.
func (f *Fetcher) FetchCSV(ctx context.Context, rawURL string) (Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv, */*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", rawURL, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	table, err := parseCSV(resp.Body, ',')
	if err != nil {
		return nil, fmt.Errorf("parse csv from %s: %w", rawURL, err)
	}
	return table, nil
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	lower := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsGoogleSheetLink reports whether source points at a Google Sheets document.
func IsGoogleSheetLink(source string) bool {
	parsed, err := url.Parse(strings.TrimSpace(source))
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Host, "docs.google.com") && strings.HasPrefix(parsed.Path, "/spreadsheets/")
}

// SheetExportURL turns a Google Sheet link into its CSV export URL.
func SheetExportURL(link string) (string, error) {
	match := sheetIDPattern.FindStringSubmatch(link)
	if match == nil {
		return "", errors.New("invalid Google Sheet URL format: missing /d/<id>")
	}
	return "https://docs.google.com/spreadsheets/d/" + match[1] + "/export?format=csv", nil
}
