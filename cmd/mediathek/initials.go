// ABOUTME: Initials command showing the first-letter distribution of show names
// ABOUTME: Used to narrow a show listing before browsing

package main

import (
	"github.com/spf13/cobra"

	"github.com/hkern/mediathek/internal/storage"
)

var initialsCmd = &cobra.Command{
	Use:   "initials",
	Short: "List show-name initials with counts",
	Long: `List the first letters of show names together with how many shows
start with each, optionally scoped to one channel. Shows whose name
normalizes to nothing are listed under '#'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		channelID, _ := cmd.Flags().GetInt64("channel")
		if channelID == 0 {
			channelID = storage.AllChannels
		}
		store.Initials(channelID, &initialPrinter{})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initialsCmd)

	initialsCmd.Flags().Int64P("channel", "c", 0, "restrict to one channel id")
}
