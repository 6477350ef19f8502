// ABOUTME: Channels command listing the broadcaster channels in the catalog
// ABOUTME: Channels are the root of the channel/show/film hierarchy

package main

import (
	"github.com/spf13/cobra"
)

var channelsCmd = &cobra.Command{
	Use:     "channels",
	Aliases: []string{"ch"},
	Short:   "List broadcaster channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		store.Channels(&channelPrinter{})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(channelsCmd)
}
