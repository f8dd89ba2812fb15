package main

import (
	"fmt"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"
)

var listOwner string

func init() {
	listCmd.Flags().StringVarP(&listOwner, "owner", "o", "", "Owner (user) id")
	listCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(listCmd)
}

var exampleList = dedent.Dedent(`
	# Show the vault of one user, newest first
	bookmarks list --owner 1094872309`,
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the bookmarks of an owner",
	Example: exampleList,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		bookmarks, err := repo.ListBookmarks(cmd.Context(), listOwner)
		if err != nil {
			return err
		}
		if len(bookmarks) == 0 {
			yellow.Println("Vault is empty")
			return nil
		}

		cyanBold.Printf("%d bookmarks:\n", len(bookmarks))
		for idx, b := range bookmarks {
			cyan.Printf("%d. %s\n", idx+1, b.Title)
			fmt.Printf("   %s  (%s)\n", b.URL, b.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}
