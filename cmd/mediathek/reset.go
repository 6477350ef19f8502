// ABOUTME: Reset command deleting the catalog and recreating it empty
// ABOUTME: Asks for confirmation before dropping local data

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hkern/mediathek/internal/config"
	"github.com/hkern/mediathek/internal/storage"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the catalog and start fresh",
	Long: `Delete the local catalog database and recreate it empty.

All channels, shows, and films are removed. Run 'mediathek update'
afterwards to rebuild the catalog from the film list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		if !yes {
			fmt.Println("This will DELETE the local catalog database.")
			fmt.Print("\nContinue? [y/N] ")

			reader := bufio.NewReader(os.Stdin)
			confirmation, _ := reader.ReadString('\n')
			confirmation = strings.TrimSpace(confirmation)

			if confirmation != "y" && confirmation != "Y" {
				fmt.Println("Canceled.")
				return nil
			}
		}

		if err := store.Close(); err != nil {
			return fmt.Errorf("failed to close catalog: %w", err)
		}

		path := cfg.DBPath()
		if dbPath != "" {
			path = config.ExpandPath(dbPath)
		}

		var err error
		store, err = storage.Open(path, true, cfg.StorageOptions(), log, noticeNotifier{})
		if err != nil {
			return fmt.Errorf("failed to recreate catalog: %w", err)
		}

		color.Green("Catalog reset.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
