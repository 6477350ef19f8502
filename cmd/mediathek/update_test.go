// ABOUTME: Tests for the update command's download and cache-header handling
// ABOUTME: Verifies cache headers persist only after a pass that ran to completion

package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/hkern/mediathek/internal/config"
	"github.com/hkern/mediathek/internal/storage"
)

const sampleListDoc = `{
	"Filmliste": ["a", "b", "c", "d", "e"],
	"X": ["ARD", "Tagesschau", "Ausgabe 1", "27.02.2024", "20:00:00", "00:15:00", "150", "", "http://x/1", "", "", "", "", "", "", "", "", "", "", ""],
	"X": ["", "", "Ausgabe 2", "27.02.2024", "12:00:00", "00:10:00", "", "", "http://x/2", "", "", "", "", "", "", "", "", "", "", ""]
}`

// setupCmdEnv points the command globals at a throwaway catalog.
func setupCmdEnv(t *testing.T) {
	t.Helper()

	oldCfg, oldStore := cfg, store
	t.Cleanup(func() { cfg, store = oldCfg, oldStore })

	cfg = &config.Config{DataDir: t.TempDir()}

	var err error
	store, err = storage.Open(cfg.DBPath(), false, cfg.StorageOptions(), log, noticeNotifier{})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
}

func runUpdateWithURL(t *testing.T, url string) error {
	t.Helper()

	if err := updateCmd.Flags().Set("url", url); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { updateCmd.Flags().Set("url", "") })

	updateCmd.SetContext(context.Background())
	return updateCmd.RunE(updateCmd, nil)
}

func TestUpdateSavesCacheAfterSuccess(t *testing.T) {
	setupCmdEnv(t)

	conditional := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			conditional = true
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		fmt.Fprint(w, sampleListDoc)
	}))
	defer srv.Close()

	if err := runUpdateWithURL(t, srv.URL); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	cache := loadListCache(cfg.ListCachePath())
	if cache.ETag != `"v1"` {
		t.Errorf("ETag = %q, want %q", cache.ETag, `"v1"`)
	}
	if cache.URL != srv.URL {
		t.Errorf("URL = %q, want %q", cache.URL, srv.URL)
	}

	// The second run sends the saved headers and takes the 304 path.
	if err := runUpdateWithURL(t, srv.URL); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if !conditional {
		t.Error("expected second update to send If-None-Match")
	}
}

func TestUpdateFailedPassLeavesNoCache(t *testing.T) {
	setupCmdEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") != "" {
			t.Error("unexpected conditional request after failed pass")
		}
		w.Header().Set("ETag", `"v1"`)
		fmt.Fprint(w, `{"X": [broken`)
	}))
	defer srv.Close()

	if err := runUpdateWithURL(t, srv.URL); err == nil {
		t.Fatal("expected update to fail on malformed list")
	}

	// The failed pass never ingested the list, so its cache headers must
	// not be persisted: the next update has to re-download.
	if _, err := os.Stat(cfg.ListCachePath()); !os.IsNotExist(err) {
		t.Errorf("expected no list cache after failed pass, stat err = %v", err)
	}

	if err := runUpdateWithURL(t, srv.URL); err == nil {
		t.Fatal("expected second update to fail on malformed list")
	}
}
