package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/presence/internal/app"
	"github.com/five82/presence/internal/autosave"
	"github.com/five82/presence/internal/config"
	"github.com/five82/presence/internal/slot"
)

func newDraftCommand() *cobra.Command {
	draftCmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or clear the saved presence draft",
	}

	showCmd := &cobra.Command{
		Use:           "show",
		Short:         "Print the saved draft as JSON",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          showDraft,
	}

	resetCmd := &cobra.Command{
		Use:           "reset",
		Short:         "Delete the saved draft",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          resetDraft,
	}

	draftCmd.AddCommand(showCmd, resetCmd)
	return draftCmd
}

func openDrafts(cmd *cobra.Command) (slot.Slot, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.OpenSlot(cfg)
}

func showDraft(cmd *cobra.Command, _ []string) error {
	drafts, err := openDrafts(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = drafts.Close() }()

	rec, err := autosave.Decode(drafts, autosave.Key)
	if errors.Is(err, slot.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved draft.")
		return nil
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func resetDraft(cmd *cobra.Command, _ []string) error {
	drafts, err := openDrafts(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = drafts.Close() }()

	if err := drafts.Delete(autosave.Key); err != nil {
		return fmt.Errorf("reset draft: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Saved draft removed.")
	return nil
}
