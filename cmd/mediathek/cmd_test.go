// ABOUTME: Tests for CLI commands
// ABOUTME: Tests command structure, flags, and the list cache helpers

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "mediathek" {
		t.Errorf("expected Use to be 'mediathek', got %q", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected root command to have a short description")
	}
	if rootCmd.PersistentFlags().Lookup("db") == nil {
		t.Error("expected --db flag to exist")
	}
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("expected --config flag to exist")
	}
}

func TestUpdateCommand(t *testing.T) {
	if updateCmd.Use != "update" {
		t.Errorf("expected Use to be 'update', got %q", updateCmd.Use)
	}
	for _, name := range []string{"full", "file", "url", "force"} {
		if updateCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag to exist", name)
		}
	}
}

func TestSearchCommand(t *testing.T) {
	if searchCmd.Use != "search <text>" {
		t.Errorf("expected Use to be 'search <text>', got %q", searchCmd.Use)
	}
	if len(searchCmd.Aliases) == 0 {
		t.Error("expected search command to have aliases")
	}
	if searchCmd.Flags().Lookup("full") == nil {
		t.Error("expected --full flag to exist")
	}
}

func TestBrowseCommands(t *testing.T) {
	if channelsCmd.Use != "channels" {
		t.Errorf("expected Use to be 'channels', got %q", channelsCmd.Use)
	}
	if showsCmd.Flags().Lookup("channel") == nil {
		t.Error("expected shows --channel flag to exist")
	}
	if showsCmd.Flags().Lookup("initial") == nil {
		t.Error("expected shows --initial flag to exist")
	}
	if initialsCmd.Flags().Lookup("channel") == nil {
		t.Error("expected initials --channel flag to exist")
	}
	if recentCmd.Flags().Lookup("within") == nil {
		t.Error("expected recent --within flag to exist")
	}
}

func TestDurationString(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0:00:00"},
		{59, "0:00:59"},
		{3723, "1:02:03"},
		{-5, "0:00:00"},
	}
	for _, tt := range tests {
		if got := durationString(tt.secs); got != tt.want {
			t.Errorf("durationString(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestListCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listcache.json")

	saveListCache(path, listCache{
		URL:          "https://example.com/list",
		ETag:         `"abc123"`,
		LastModified: "Mon, 02 Jan 2006 15:04:05 GMT",
	})

	cache := loadListCache(path)
	if cache.URL != "https://example.com/list" {
		t.Errorf("URL = %q", cache.URL)
	}
	if cache.ETag != `"abc123"` {
		t.Errorf("ETag = %q", cache.ETag)
	}
}

func TestListCacheMissingFile(t *testing.T) {
	cache := loadListCache(filepath.Join(t.TempDir(), "nope.json"))
	if cache.URL != "" || cache.ETag != "" || cache.LastModified != "" {
		t.Errorf("expected empty cache, got %+v", cache)
	}
}

func TestListCacheMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listcache.json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	cache := loadListCache(path)
	if cache.URL != "" {
		t.Errorf("expected empty cache for malformed file, got %+v", cache)
	}
}
