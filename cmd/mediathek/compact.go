// ABOUTME: Compact command reclaiming space after large purges
// ABOUTME: Runs VACUUM on the catalog database

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Reclaim unused space in the catalog database",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Compacting catalog...")
		if err := store.Compact(); err != nil {
			return fmt.Errorf("compact failed: %w", err)
		}
		color.Green("Compaction complete.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compactCmd)
}
