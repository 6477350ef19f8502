// ABOUTME: Live command listing the broadcasters' livestream entries
// ABOUTME: Livestreams hang off the synthetic LIVESTREAM show of each channel

package main

import (
	"github.com/spf13/cobra"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "List livestreams",
	RunE: func(cmd *cobra.Command, args []string) error {
		urls, _ := cmd.Flags().GetBool("urls")
		store.LiveStreams(&filmPrinter{preferHD: cfg.PreferHighQuality, showURLs: urls})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(liveCmd)

	liveCmd.Flags().BoolP("urls", "u", false, "print the stream URL for each entry")
}
