package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Show aggregate server statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := loadClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()

		meta, err := client.Meta(ctx)
		if err != nil {
			return fmt.Errorf("fetching server meta: %w", err)
		}

		fmt.Printf("Server: %s\n", cfg.Server)
		fmt.Printf("Stories: %d\n", meta.Stories)
		fmt.Printf("Articles: %d\n", meta.Articles)
		fmt.Printf("Trending topics: %d\n", meta.TrendingTopics)
		if meta.LastUpdated != "" {
			fmt.Printf("Last updated: %s\n", meta.LastUpdated)
		}
		return nil
	},
}
