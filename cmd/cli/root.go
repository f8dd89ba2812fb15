package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/config"
)

var (
	red       = color.New(color.FgRed)
	cyan      = color.New(color.FgCyan)
	cyanBold  = color.New(color.FgCyan).Add(color.Bold)
	green     = color.New(color.FgGreen)
	greenBold = color.New(color.FgGreen).Add(color.Bold)
	yellow    = color.New(color.FgYellow)
)

var databaseURL string

func init() {
	rootCmd.PersistentFlags().StringVarP(&databaseURL, "db", "d", "", "Database URL (defaults to DATABASE_URL)")
}

var rootCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Maintenance tool for the bookmark store",
	Long: `bookmarks reads and migrates the store used by the bookmark server.

It talks to the same database as the server (a local SQLite file or a
Turso URL) and can list, export and import bookmarks as JSON, YAML or
the HTML bookmark file that browsers export.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		red.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore() (*sqlite.SQLiteRepository, error) {
	url := databaseURL
	if url == "" {
		url = config.Load().DatabaseURL
	}
	repo, err := sqlite.NewSQLiteRepository(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return repo, nil
}
