// ABOUTME: Search command querying film titles, optionally descriptions too
// ABOUTME: Renders matches through the film printer

package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:     "search <text>",
	Aliases: []string{"s"},
	Short:   "Search films by title",
	Long: `Search films whose title contains the given text.

With --full, film descriptions are searched as well.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")
		urls, _ := cmd.Flags().GetBool("urls")
		text := strings.Join(args, " ")

		printer := &filmPrinter{preferHD: cfg.PreferHighQuality, showURLs: urls}
		if full {
			store.SearchTitlesDescriptions(text, printer)
		} else {
			store.SearchTitles(text, printer)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Bool("full", false, "search descriptions as well as titles")
	searchCmd.Flags().BoolP("urls", "u", false, "print the playback URL for each film")
}
