// ABOUTME: Update command running one film-list synchronization pass
// ABOUTME: Downloads the list with HTTP caching, streams it into the store, and reports counters

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hkern/mediathek/internal/fetch"
	"github.com/hkern/mediathek/internal/storage"
	"github.com/hkern/mediathek/internal/sync"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Synchronize the catalog from the film list",
	Long: `Download the current film list and synchronize the catalog.

By default this is an incremental pass: records are layered onto the
existing catalog and nothing is purged. With --full, entries missing
from the list are removed after ingestion.

Uses HTTP caching headers (ETag, Last-Modified) to skip the download
when the list is unchanged. Use --force to fetch unconditionally.
Interrupting a running update (Ctrl-C) aborts it cleanly: nothing is
purged and the catalog keeps its previous contents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")
		file, _ := cmd.Flags().GetString("file")
		urlFlag, _ := cmd.Flags().GetString("url")
		force, _ := cmd.Flags().GetBool("force")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var (
			src          sync.Source
			pendingCache *listCache
		)

		if file != "" {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open film list: %w", err)
			}
			defer f.Close()
			src = sync.ListSource{R: f}
		} else {
			listURL := cfg.GetListURL()
			if urlFlag != "" {
				listURL = urlFlag
			}

			cache := loadListCache(cfg.ListCachePath())
			etag, lastModified := "", ""
			if !force && cache.URL == listURL {
				etag = cache.ETag
				lastModified = cache.LastModified
			}

			fmt.Printf("Fetching %s... ", listURL)
			result, err := fetch.Fetch(ctx, listURL, etag, lastModified)
			if err != nil {
				fmt.Println()
				return fmt.Errorf("failed to fetch film list: %w", err)
			}
			if result.NotModified {
				faint := color.New(color.Faint).SprintFunc()
				fmt.Printf("%s (unchanged)\n", faint("-"))
				return nil
			}
			defer result.Body.Close()
			fmt.Println("ok")

			pendingCache = &listCache{
				URL:          listURL,
				ETag:         result.ETag,
				LastModified: result.LastModified,
			}

			src = sync.ListSource{R: result.Body}
		}

		upd := sync.NewUpdater(store, log)
		stats, err := upd.Run(ctx, src, full)
		if err != nil {
			return fmt.Errorf("update failed: %w", err)
		}

		// Cache headers are persisted only for a pass that ran to
		// completion. An aborted or failed pass never ingested the list,
		// so the next update must re-download it rather than see a 304.
		if pendingCache != nil && !stats.Aborted {
			saveListCache(cfg.ListCachePath(), *pendingCache)
		}

		printStats(stats)
		return nil
	},
}

func printStats(stats *sync.Stats) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if stats.Aborted {
		fmt.Printf("%s update aborted after %d records, catalog unchanged\n", yellow("!"), stats.Records)
		return
	}

	fmt.Printf("%s %d records processed\n", green("v"), stats.Records)
	printCounts("added", stats.Added)
	printCounts("removed", stats.Removed)
	fmt.Printf("  catalog: %d channels, %d shows, %d films\n",
		stats.Totals.Channels, stats.Totals.Shows, stats.Totals.Films)
}

func printCounts(label string, c storage.Counts) {
	if c.Channels == 0 && c.Shows == 0 && c.Films == 0 {
		return
	}
	fmt.Printf("  %s: %d channels, %d shows, %d films\n", label, c.Channels, c.Shows, c.Films)
}

// listCache persists the film list's HTTP cache headers between updates.
type listCache struct {
	URL          string `json:"url"`
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
}

func loadListCache(path string) listCache {
	var cache listCache
	data, err := os.ReadFile(path)
	if err != nil {
		return cache
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return listCache{}
	}
	return cache
}

func saveListCache(path string, cache listCache) {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return
	}
	// Best effort, a lost cache only costs one re-download.
	_ = os.WriteFile(path, data, 0600)
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().Bool("full", false, "purge entries missing from the list after ingestion")
	updateCmd.Flags().String("file", "", "read the film list from a local file instead of downloading")
	updateCmd.Flags().String("url", "", "override the film-list URL")
	updateCmd.Flags().BoolP("force", "f", false, "ignore cache headers and force download")

	updateCmd.MarkFlagsMutuallyExclusive("file", "url")
}
