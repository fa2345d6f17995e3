package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ahilan-1/openground/internal/cache"
	"github.com/Ahilan-1/openground/internal/config"
)

var flagPruneOlderThan string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the offline story cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show offline cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()
		db, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Cache: %s\n", dbPath)
		fmt.Printf("Stories: %d\n", count)
		fmt.Printf("Size: %s\n", formatBytes(size))
		if stamp := db.LastUpdated(); stamp != "" {
			fmt.Printf("Server last updated: %s\n", stamp)
		}
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stale stories from the offline cache",
	Long: `Delete cached stories that have not been re-fetched recently and
reclaim disk space. Default retention is 7d unless overridden with
--older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		retention := 7 * 24 * time.Hour
		if flagPruneOlderThan != "" {
			d, err := parseRetention(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		deleted, err := db.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d stale stor%s.\n", deleted, plural(deleted, "y", "ies"))
		}
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 3d, 72h)")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePruneCmd)
}

// parseRetention accepts Go durations plus an "Nd" day shorthand.
func parseRetention(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
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
