// ABOUTME: Films command listing the films of one or more shows
// ABOUTME: Accepts the comma-joined id lists produced by grouped show listings

package main

import (
	"github.com/spf13/cobra"
)

var filmsCmd = &cobra.Command{
	Use:   "films <show-id[,show-id...]>",
	Short: "List the films of a show",
	Long: `List the films of one or more shows by id.

A grouped show listing prints comma-joined ids; pass the list as-is to
see the films of every channel's variant, annotated with their channel.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		urls, _ := cmd.Flags().GetBool("urls")
		store.Films(args[0], &filmPrinter{preferHD: cfg.PreferHighQuality, showURLs: urls})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filmsCmd)

	filmsCmd.Flags().BoolP("urls", "u", false, "print the playback URL for each film")
}
