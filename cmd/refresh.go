package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ahilan-1/openground/internal/api"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Ask the server to re-ingest its feeds",
	Long: `Trigger a full server-side refresh and wait for it to finish.
Ingestion can take a while on servers with many feeds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := loadClient()
		if err != nil {
			return err
		}

		// Ingestion is slow; give it well beyond the normal request timeout.
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		fmt.Println("Refreshing...")
		res, err := client.Refresh(ctx)
		if err != nil {
			if errors.Is(err, api.ErrRefreshThrottled) {
				return errors.New("refresh was triggered too recently, try again shortly")
			}
			return fmt.Errorf("refreshing: %w", err)
		}

		fmt.Printf("Done: %d new article%s, %d stories.\n",
			res.AddedArticles, plural(int64(res.AddedArticles), "", "s"), res.Stories)
		return nil
	},
}
