package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"starmap-service/internal/adapters/repositories"
	"starmap-service/internal/config"
	"starmap-service/internal/referee"
)

// Global flag values.
var (
	flagConfigDir string
	flagDBPath    string
	flagJSON      bool
	flagVerbose   bool
)

// cfg is resolved by PersistentPreRunE before any subcommand runs.
var cfg *config.Config

// logger writes human-readable output to stderr; --json keeps stdout for
// machine output.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Prefix:          "starmap",
})

var rootCmd = &cobra.Command{
	Use:           "starmap",
	Short:         "starmap manages and explores star sector maps",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}

		configDir, err := config.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		cfg, err = config.Load(configDir)
		if err != nil {
			return err
		}
		if flagDBPath != "" {
			cfg.DBPath = flagDBPath
		}
		logger.Debug("config loaded", "dir", configDir, "db", cfg.DBPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: ~/.starmap)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database file (default: db_path from config)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "machine-readable output")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "debug logging")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(versionCmd)
}

// openStore opens the configured SQLite database and ensures the schema.
// The caller must close the returned handle.
func openStore() (*repositories.SQLWorldRepository, *sql.DB, error) {
	sdb, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %q: %w", cfg.DBPath, err)
	}
	if err := repositories.InitSchema(sdb); err != nil {
		sdb.Close()
		return nil, nil, err
	}
	return repositories.NewSQLWorldRepository(sdb), sdb, nil
}

// loadOverlay reads the configured referee notes file, if any.
func loadOverlay() (*referee.Overlay, error) {
	return referee.LoadOverlay(cfg.RefereeNotes)
}

// refereeRequested validates a --referee flag against the configuration.
// Referee output stays locked unless a token is configured, matching the
// server's gate.
func refereeRequested(on bool) (bool, error) {
	if !on {
		return false, nil
	}
	if cfg.RefereeToken == "" {
		return false, fmt.Errorf("referee mode needs referee_token in the configuration")
	}
	return true, nil
}
