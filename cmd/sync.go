package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"vodcoach/internal/app"
	"vodcoach/pkg/config"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull index videos into the local catalog",
	Long: `Fetch videos present in the Twelve Labs index but missing from the
local catalog, generating summaries and thumbnails for each.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}

	added, err := service.SyncCatalog(ctx)
	if err != nil {
		return err
	}

	slog.Info("Catalog sync complete", "added", added)
	return nil
}
