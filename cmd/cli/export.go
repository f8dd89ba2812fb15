package main

import (
	"os"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/adapters/importer"
)

var (
	exportOwner  string
	exportFormat string
	exportFile   string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOwner, "owner", "o", "", "Only export this owner (default: everyone)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "json, yaml or html (default: from --file, else json)")
	exportCmd.Flags().StringVar(&exportFile, "file", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exampleExport = dedent.Dedent(`
	# Dump the whole store as JSON
	bookmarks export > backup.json

	# Export one user as a browser bookmark file
	bookmarks export --owner 1094872309 --file bookmarks.html`,
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export bookmarks for backup or migration",
	Example: exampleExport,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if format == "" {
			format = importer.FormatFromPath(exportFile)
		}

		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		bookmarks, err := repo.Dump(cmd.Context(), exportOwner)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if exportFile != "" {
			f, err := os.Create(exportFile)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		if err := importer.Encode(out, format, bookmarks); err != nil {
			return err
		}
		if exportFile != "" {
			green.Printf("Exported %d bookmarks to %s\n", len(bookmarks), exportFile)
		}
		return nil
	},
}
