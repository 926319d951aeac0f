package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/five82/presence/internal/config"
	"github.com/five82/presence/internal/logtail"
)

func newLogsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "logs",
		Short:         "Print the tail of the presence log file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          showLogs,
	}
	cmd.Flags().IntP("lines", "n", 200, "number of lines to show (0 for all)")
	cmd.Flags().String("level", "debug", "minimum level to show (debug, info, warn, error)")
	cmd.Flags().Bool("color", true, "highlight levels and components")
	return cmd
}

func showLogs(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	lines, _ := cmd.Flags().GetInt("lines")
	levelName, _ := cmd.Flags().GetString("level")
	color, _ := cmd.Flags().GetBool("color")

	var minLevel slog.Level
	if err := minLevel.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("invalid --level %q: %w", levelName, err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	out, err := logtail.Read(cfg.LogFile, lines)
	if err != nil {
		return err
	}
	out = logtail.AtLeast(out, minLevel)
	if len(out) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No log lines in %s.\n", cfg.LogFile)
		return nil
	}
	for _, line := range out {
		if color {
			line = logtail.Colorize(line)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
