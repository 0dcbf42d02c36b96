package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vodcoach",
	Short: "Gameplay video analysis and coaching",
	Long: `Vodcoach ingests gameplay recordings, indexes them with Twelve Labs,
and serves AI feedback, summaries, chapters, thumbnails and coach chat.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger()
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
