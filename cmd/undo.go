/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/pkghistory/internal/executor"
	"github.com/josephgoksu/pkghistory/internal/history"
	"github.com/josephgoksu/pkghistory/internal/ui"
	"github.com/spf13/cobra"
)

var replayOpts executor.Options

var undoCmd = &cobra.Command{
	Use:   "undo ID",
	Short: "Undo a transaction",
	Long: `Undo an install by removing its packages, or a remove by installing them again.
Other transactions cannot be undone. Root is required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReplay(cmd, args[0], false)
	},
}

var redoCmd = &cobra.Command{
	Use:   "redo ID",
	Short: "Redo a transaction",
	Long:  `Run an install or remove transaction again. Root is required.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReplay(cmd, args[0], true)
	},
}

func runReplay(cmd *cobra.Command, rawID string, redo bool) error {
	id, err := parseTransactionID(rawID)
	if err != nil {
		return err
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	var plan history.Plan
	if redo {
		plan, err = s.service.Redo(ctx, id, replayOpts)
	} else {
		plan, err = s.service.Undo(ctx, id, replayOpts)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.StylePrefixDone.Render("Done:"), ui.PlanDescription(plan))
	return nil
}

func init() {
	for _, c := range []*cobra.Command{undoCmd, redoCmd} {
		c.Flags().BoolVar(&replayOpts.Purge, "purge", false, "Purge configuration files when removing packages.")
		c.Flags().BoolVarP(&replayOpts.AssumeYes, "assume-yes", "y", false, "Assume 'yes' to all prompts.")
		rootCmd.AddCommand(c)
	}
}
