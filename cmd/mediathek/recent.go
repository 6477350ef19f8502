// ABOUTME: Recent command listing films that aired within a recent window
// ABOUTME: Default window is the last 24 hours

package main

import (
	"time"

	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently aired films",
	RunE: func(cmd *cobra.Command, args []string) error {
		within, _ := cmd.Flags().GetDuration("within")
		urls, _ := cmd.Flags().GetBool("urls")
		store.Recents(within, &filmPrinter{preferHD: cfg.PreferHighQuality, showURLs: urls})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recentCmd)

	recentCmd.Flags().DurationP("within", "w", 24*time.Hour, "air-time window to include")
	recentCmd.Flags().BoolP("urls", "u", false, "print the playback URL for each film")
}
