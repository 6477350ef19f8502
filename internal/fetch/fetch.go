// ABOUTME: HTTP fetcher for film-list downloads with conditional request support
// ABOUTME: Uses ETag and Last-Modified headers so an unchanged list is not re-ingested

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxResponseSize caps a film-list download. Full lists run to a few
// hundred megabytes.
const MaxResponseSize = 512 * 1024 * 1024

// Result contains the response from an HTTP fetch operation. Body
// streams the response and must be closed by the caller unless
// NotModified is set.
type Result struct {
	Body         io.ReadCloser
	ETag         string
	LastModified string
	NotModified  bool
}

var httpClient = &http.Client{
	Timeout: 15 * time.Minute,
}

// Fetch retrieves a URL with optional conditional request headers. A
// non-empty etag sets If-None-Match, a non-empty lastModified sets
// If-Modified-Since. Returns NotModified=true for 304 responses and an
// error for any other non-200 status.
func Fetch(ctx context.Context, urlStr, etag, lastModified string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "mediathek/1.0 (catalog indexer)")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastModified != "" {
		req.Header.Set("If-Modified-Since", lastModified)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.StatusCode == http.StatusNotModified {
		resp.Body.Close()
		return &Result{NotModified: true}, nil
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return &Result{
		Body:         http.MaxBytesReader(nil, resp.Body, MaxResponseSize),
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}, nil
}
