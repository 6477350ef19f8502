// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, opens the catalog store, and wires logging for all subcommands

package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hkern/mediathek/internal/config"
	"github.com/hkern/mediathek/internal/storage"
)

var (
	configPath string
	dbPath     string
	verbose    bool

	cfg   *config.Config
	store *storage.Store
	log   = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "mediathek",
	Short: "Browse and synchronize the MediathekView film catalog",
	Long: `mediathek keeps a local SQLite catalog of German public-broadcast
films and lets you browse it by channel, show, and search.

Run 'mediathek update' to download the current film list and synchronize
the catalog, then browse with 'channels', 'shows', 'search', and friends.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetLevel(logrus.WarnLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(config.ExpandPath(configPath))
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		path := cfg.DBPath()
		if dbPath != "" {
			path = config.ExpandPath(dbPath)
		}

		store, err = storage.Open(path, false, cfg.StorageOptions(), log, noticeNotifier{})
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			if err := store.Close(); err != nil {
				return fmt.Errorf("failed to close catalog: %w", err)
			}
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ~/.config/mediathek/config.json)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "catalog database path (default: ~/.local/share/mediathek/catalog.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
