package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vodcoach/internal/app"
	"vodcoach/internal/server"
	"vodcoach/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the upload, catalog, chat and thumbnail endpoints, plus the
uploads directory as static files.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}
	if mirror := service.Mirror(); mirror != nil {
		defer func() { _ = mirror.Close() }()

		uploaded, err := mirror.SyncDir(ctx, service.Uploads().Dir())
		if err != nil {
			slog.Warn("Failed to sync uploads to GCS", "error", err)
		} else if uploaded > 0 {
			slog.Info("Mirrored uploads to GCS", "count", uploaded)
		}
	}

	srv := server.New(service)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr)
	if err := srv.Start(addr); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
