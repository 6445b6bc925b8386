// Package cmd provides Cobra CLI commands for visited.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/visited/internal/cli"
)

var (
	app     *cli.App
	profile string

	rootCmd = &cobra.Command{
		Use:   "visited",
		Short: "Per-profile browsing history with autocomplete search",
		Long: `Visited - per-profile browsing history storage and search.

Each profile keeps its own SQLite history database. Visits are
deduplicated by exact URL, searchable by substring across URL and
title, and cleaned up by age and count policies.

Use 'visited browse' for the interactive history browser, or the
history subcommands for scripted access.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}

			var err error
			app, err = cli.NewApp(profile)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "default", "profile name")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}
