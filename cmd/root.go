package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagServer   string
	flagConfig   string
	flagCategory string
	flagLimit    int
)

var rootCmd = &cobra.Command{
	Use:   "openground",
	Short: "Terminal client for the OpenGround news bias aggregator",
	Long: `openground browses clustered news stories from an OpenGround server
in the terminal: coverage from across the political spectrum with bias
bars, blindspots, trending topics, and story timelines.`,
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "OpenGround server URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&flagCategory, "category", "", "start with this category selected")
	rootCmd.Flags().IntVar(&flagLimit, "limit", 0, "stories per page (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(cacheCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("openground %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
