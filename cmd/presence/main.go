package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/presence/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "presence: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "presence",
		Short:         "Compose and publish a Discord rich presence from the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runUI,
	}
	root.PersistentFlags().String("config", "", "config file path (default ~/.config/presence/config.toml)")
	root.Flags().String("prefs", "", "UI preferences file path (default ~/.config/presence/prefs.toml)")
	root.Flags().Int("poll", 0, "status poll interval in milliseconds (default from config, 1500)")

	root.AddCommand(newDraftCommand(), newLogsCommand())
	return root
}

func runUI(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	prefsPath, _ := cmd.Flags().GetString("prefs")
	pollMillis, _ := cmd.Flags().GetInt("poll")
	if pollMillis < 0 {
		return fmt.Errorf("--poll must be positive, got %d", pollMillis)
	}

	opts := app.Options{ConfigPath: configPath, PrefsPath: prefsPath}
	if pollMillis > 0 {
		opts.PollEvery = time.Duration(pollMillis) * time.Millisecond
	}
	return app.Run(cmd.Context(), opts)
}
