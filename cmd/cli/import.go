package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/adapters/importer"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
)

var (
	importOwner  string
	importFormat string
	importFile   string
)

func init() {
	importCmd.Flags().StringVarP(&importOwner, "owner", "o", "", "Assign every record to this owner")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "json, yaml or html (default: from --file)")
	importCmd.Flags().StringVar(&importFile, "file", "", "File to import")
	importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}

var exampleImport = dedent.Dedent(`
	# Restore a backup made with export
	bookmarks import --file backup.json

	# Load a browser export into one user's vault
	bookmarks import --owner 1094872309 --file bookmarks.html`,
)

var importCmd = &cobra.Command{
	Use:     "import",
	Short:   "Import bookmarks, skipping URLs the owner already saved",
	Example: exampleImport,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := importFormat
		if format == "" {
			format = importer.FormatFromPath(importFile)
		}

		file, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()

		records, err := importer.Decode(file, format)
		if err != nil {
			return err
		}

		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		res, err := importBookmarks(cmd.Context(), repo, importOwner, records)
		for _, s := range res.Skipped {
			yellow.Printf("Skipping %s: %s\n", s.URL, s.Reason)
		}
		if err != nil {
			return err
		}
		greenBold.Printf("Imported %d bookmarks\n", res.Imported)
		return nil
	},
}

type restorer interface {
	Dump(ctx context.Context, ownerID string) ([]domain.Bookmark, error)
	Restore(ctx context.Context, b *domain.Bookmark) error
}

type skipped struct {
	URL    string
	Reason string
}

type importResult struct {
	Imported int
	Skipped  []skipped
}

// importBookmarks restores records, assigning owner when given. Records with an URL
// the owner already has (in the store or earlier in the same file) are skipped.
func importBookmarks(ctx context.Context, store restorer, owner string, records []domain.Bookmark) (importResult, error) {
	var res importResult
	seen := map[string]map[string]bool{}

	for _, b := range records {
		if owner != "" {
			b.OwnerID = owner
		}
		b.Title = strings.TrimSpace(b.Title)
		b.URL = strings.TrimSpace(b.URL)

		switch {
		case b.OwnerID == "":
			res.Skipped = append(res.Skipped, skipped{b.URL, "no owner, pass --owner"})
			continue
		case b.Title == "" || b.URL == "":
			res.Skipped = append(res.Skipped, skipped{b.URL, domain.ErrEmptyField.Error()})
			continue
		}

		urls, ok := seen[b.OwnerID]
		if !ok {
			existing, err := store.Dump(ctx, b.OwnerID)
			if err != nil {
				return res, err
			}
			urls = make(map[string]bool, len(existing))
			for _, e := range existing {
				urls[e.URL] = true
			}
			seen[b.OwnerID] = urls
		}
		if urls[b.URL] {
			res.Skipped = append(res.Skipped, skipped{b.URL, "already saved"})
			continue
		}

		b.ID = 0
		if err := store.Restore(ctx, &b); err != nil {
			return res, fmt.Errorf("import %s: %w", b.URL, err)
		}
		urls[b.URL] = true
		res.Imported++
	}
	return res, nil
}
