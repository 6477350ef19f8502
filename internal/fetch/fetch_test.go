// ABOUTME: Tests for the HTTP fetcher with ETag and Last-Modified caching support
// ABOUTME: Uses httptest to simulate server responses including 304 Not Modified

package fetch_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hkern/mediathek/internal/fetch"
)

func TestFetchFresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "mediathek/1.0 (catalog indexer)" {
			t.Errorf("unexpected User-Agent %q", ua)
		}
		w.Header().Set("ETag", `"abc123"`)
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"X":[]}`))
	}))
	defer server.Close()

	result, err := fetch.Fetch(context.Background(), server.URL, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer result.Body.Close()

	if result.NotModified {
		t.Error("expected NotModified=false for fresh fetch")
	}
	body, err := io.ReadAll(result.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != `{"X":[]}` {
		t.Errorf("body = %q", string(body))
	}
	if result.ETag != `"abc123"` {
		t.Errorf("etag = %q", result.ETag)
	}
	if result.LastModified != "Mon, 02 Jan 2006 15:04:05 GMT" {
		t.Errorf("last-modified = %q", result.LastModified)
	}
}

func TestFetchNotModified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") != `"abc123"` {
			t.Errorf("If-None-Match = %q", r.Header.Get("If-None-Match"))
		}
		if r.Header.Get("If-Modified-Since") == "" {
			t.Error("If-Modified-Since missing")
		}
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	result, err := fetch.Fetch(context.Background(), server.URL, `"abc123"`, "Mon, 02 Jan 2006 15:04:05 GMT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NotModified {
		t.Error("expected NotModified=true for 304 response")
	}
}

func TestFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := fetch.Fetch(context.Background(), server.URL, "", ""); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestFetchCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := fetch.Fetch(ctx, server.URL, "", ""); err == nil {
		t.Error("expected error for cancelled context")
	}
}
