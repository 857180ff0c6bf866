package cmd

import (
	"fmt"

	"github.com/insighthub/cli/internal/config"
	"github.com/insighthub/cli/internal/store"
	"github.com/spf13/cobra"
)

var (
	flagBookmarkSearch   string
	flagBookmarkCategory string
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List locally saved bookmarks",
	Long:  "Bookmarks are stored on this machine only; the platform has no server-side read-later list.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(config.BookmarksPath())
		if err != nil {
			return fmt.Errorf("opening bookmark store: %w", err)
		}
		defer db.Close()

		list, err := db.List(store.ListOpts{
			Search:   flagBookmarkSearch,
			Category: flagBookmarkCategory,
		})
		if err != nil {
			return fmt.Errorf("listing bookmarks: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No bookmarks.")
			return nil
		}

		for _, b := range list {
			fmt.Printf("%s  %s\n", b.SavedAt.Format("2006-01-02"), b.Title)
			fmt.Printf("            %s · %s · id %s\n", b.Category, b.Author, b.PostID)
		}
		return nil
	},
}

var bookmarksRemoveCmd = &cobra.Command{
	Use:   "remove <post-id>",
	Short: "Remove one bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(config.BookmarksPath())
		if err != nil {
			return fmt.Errorf("opening bookmark store: %w", err)
		}
		defer db.Close()

		removed, err := db.Remove(args[0])
		if err != nil {
			return fmt.Errorf("removing bookmark: %w", err)
		}
		if !removed {
			fmt.Println("No such bookmark.")
			return nil
		}
		fmt.Println("Removed.")
		return nil
	},
}

var bookmarksClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all bookmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(config.BookmarksPath())
		if err != nil {
			return fmt.Errorf("opening bookmark store: %w", err)
		}
		defer db.Close()

		deleted, err := db.Clear()
		if err != nil {
			return fmt.Errorf("clearing bookmarks: %w", err)
		}
		fmt.Printf("Removed %d bookmark(s).\n", deleted)
		return nil
	},
}

var bookmarksStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bookmark store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.BookmarksPath()
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening bookmark store: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Store: %s\n", dbPath)
		fmt.Printf("Bookmarks: %d\n", count)
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

func init() {
	bookmarksCmd.Flags().StringVar(&flagBookmarkSearch, "search", "", "filter bookmarks by title, excerpt, or author")
	bookmarksCmd.Flags().StringVar(&flagBookmarkCategory, "category", "", "filter bookmarks by category")
	bookmarksCmd.AddCommand(bookmarksRemoveCmd)
	bookmarksCmd.AddCommand(bookmarksClearCmd)
	bookmarksCmd.AddCommand(bookmarksStatsCmd)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
