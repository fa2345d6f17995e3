package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ahilan-1/openground/internal/api"
	"github.com/Ahilan-1/openground/internal/cache"
	"github.com/Ahilan-1/openground/internal/config"
	"github.com/Ahilan-1/openground/internal/tui"
)

// loadClient builds the API client from config plus flag overrides.
// Shared by the TUI and the one-shot subcommands.
func loadClient() (*config.Config, *api.Client, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if flagServer != "" {
		cfg.Server = flagServer
	}
	return cfg, api.New(cfg.Server, cfg.RequestTimeout()), nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}
	if flagLimit > 0 {
		cfg.PageSize = flagLimit
	}

	// The offline cache is best-effort: a broken cache file should not
	// keep the client from running.
	db, err := cache.Open(config.CachePath())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: offline cache unavailable: %v\n", err)
		db = nil
	}
	if db != nil {
		defer db.Close()
	}

	return tui.Run(tui.RunOpts{
		Cfg:      cfg,
		Client:   client,
		DB:       db,
		Category: flagCategory,
	})
}
