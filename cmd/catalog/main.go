// Command catalog refreshes the hero catalog files from OpenDota.
//
//	catalog heroes [--force]
//	catalog meta
//	catalog refresh [--force]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dom/dota-draft-assistant/internal/catalog"
	"github.com/dom/dota-draft-assistant/internal/config"
	"github.com/dom/dota-draft-assistant/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dir     string
		baseURL string
	)

	loadRefresher := func() (*catalog.Refresher, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})
		if dir != "" {
			cfg.Catalog.Dir = dir
		}
		if baseURL != "" {
			cfg.Catalog.OpenDotaURL = baseURL
		}
		store := catalog.NewStore(cfg.Catalog.Dir)
		return catalog.NewRefresher(store, cfg.Catalog.OpenDotaURL, cfg.Catalog.HTTPTimeout), nil
	}

	root := &cobra.Command{
		Use:          "catalog",
		Short:        "Maintain the hero catalog (heroes.json and meta.json)",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", "", "catalog directory (overrides config)")
	root.PersistentFlags().StringVar(&baseURL, "opendota-url", "", "OpenDota API base URL (overrides config)")

	root.AddCommand(newHeroesCmd(loadRefresher), newMetaCmd(loadRefresher), newRefreshCmd(loadRefresher))
	return root
}

func newHeroesCmd(load func() (*catalog.Refresher, error)) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "heroes",
		Short: "Fetch the hero list; skipped when heroes.json exists unless --force",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := load()
			if err != nil {
				return err
			}
			count, written, err := r.RefreshHeroes(cmd.Context(), force)
			if err != nil {
				return err
			}
			logging.Info().Int("heroes", count).Bool("written", written).Msg("hero list done")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing heroes.json")
	return cmd
}

func newMetaCmd(load func() (*catalog.Refresher, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "meta",
		Short: "Fetch hero statistics and rewrite meta.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := load()
			if err != nil {
				return err
			}
			entries, lastUpdated, err := r.RefreshMeta(cmd.Context())
			if err != nil {
				return err
			}
			logging.Info().Int("meta_entries", entries).Str("last_updated", lastUpdated).Msg("meta done")
			return nil
		},
	}
}

func newRefreshCmd(load func() (*catalog.Refresher, error)) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch both the hero list and the hero statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := load()
			if err != nil {
				return err
			}
			res, err := r.Refresh(cmd.Context(), force)
			if err != nil {
				return err
			}
			logging.Info().
				Int("heroes", res.Heroes).
				Bool("heroes_written", res.HeroesWritten).
				Int("meta_entries", res.MetaEntries).
				Str("last_updated", res.LastUpdated).
				Msg("catalog refreshed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing heroes.json")
	return cmd
}
