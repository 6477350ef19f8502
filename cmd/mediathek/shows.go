// ABOUTME: Shows command listing shows by channel and name initial
// ABOUTME: Grouped listings merge same-named shows across channels when enabled

package main

import (
	"github.com/spf13/cobra"

	"github.com/hkern/mediathek/internal/storage"
)

var showsCmd = &cobra.Command{
	Use:   "shows",
	Short: "List shows",
	Long: `List shows, optionally scoped to one channel and/or one name initial.

When browsing all channels with grouping enabled in the config,
same-named shows are merged into one line listing every channel that
carries them. Use the printed ids with 'mediathek films'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		channelID, _ := cmd.Flags().GetInt64("channel")
		initial, _ := cmd.Flags().GetString("initial")
		if channelID == 0 {
			channelID = storage.AllChannels
		}
		store.Shows(channelID, initial, &showPrinter{})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showsCmd)

	showsCmd.Flags().Int64P("channel", "c", 0, "restrict to one channel id")
	showsCmd.Flags().StringP("initial", "i", "", "restrict to shows starting with this letter")
}
