// ABOUTME: Status command showing the sync ledger of the catalog
// ABOUTME: Displays state, last update time, and the counters of the last pass

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hkern/mediathek/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := store.Status()
		if err != nil {
			return fmt.Errorf("failed to read status: %w", err)
		}

		switch status.State {
		case models.StateIdle:
			color.Green("State: %s", status.State)
		case models.StateUpdating:
			color.Yellow("State: %s", status.State)
		case models.StateAborted:
			color.Red("State: %s", status.State)
		default:
			fmt.Printf("State: %s\n", status.State)
		}

		if status.Description != "" {
			fmt.Printf("  %s\n", status.Description)
		}
		if status.LastUpdate != nil {
			fmt.Printf("Last update: %s\n", status.LastUpdate.Format("02.01.2006 15:04:05"))
		} else {
			fmt.Println("Last update: never")
		}

		fmt.Printf("Catalog: %d channels, %d shows, %d films\n",
			status.TotalChannels, status.TotalShows, status.TotalFilms)

		if status.AddedFilms > 0 || status.RemovedFilms > 0 ||
			status.AddedShows > 0 || status.RemovedShows > 0 ||
			status.AddedChannels > 0 || status.RemovedChannels > 0 {
			fmt.Println("Last pass:")
			fmt.Printf("  added:   %d channels, %d shows, %d films\n",
				status.AddedChannels, status.AddedShows, status.AddedFilms)
			fmt.Printf("  removed: %d channels, %d shows, %d films\n",
				status.RemovedChannels, status.RemovedShows, status.RemovedFilms)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
