package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/insighthub/cli/internal/api"
	"github.com/insighthub/cli/internal/assets"
	"github.com/insighthub/cli/internal/config"
	"github.com/insighthub/cli/internal/feed"
	"github.com/insighthub/cli/internal/store"
	"github.com/insighthub/cli/internal/tui"
	"github.com/spf13/cobra"
)

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := api.NewClient(cfg.Server.URL, config.SessionPath())
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	viewer, err := client.Me(ctx)
	cancel()
	if err != nil {
		if api.IsUnauthorized(err) {
			return fmt.Errorf("not logged in; run `insighthub login` first")
		}
		return fmt.Errorf("checking session: %w", err)
	}

	bookmarks, err := store.Open(config.BookmarksPath())
	if err != nil {
		return fmt.Errorf("opening bookmark store: %w", err)
	}
	defer bookmarks.Close()

	resolver := assets.NewResolver(client, assets.DefaultTTL)
	controller := feed.NewController(client, resolver, cfg.GetPageSize())

	return tui.Run(tui.RunOpts{
		Cfg:        cfg,
		Client:     client,
		Controller: controller,
		Bookmarks:  bookmarks,
		Viewer:     viewer,
	})
}
