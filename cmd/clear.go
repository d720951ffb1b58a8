/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/josephgoksu/pkghistory/internal/ui"
	"github.com/josephgoksu/pkghistory/types"
	"github.com/spf13/cobra"
)

var clearAll bool

// clearCmd removes one transaction or the whole history.
var clearCmd = &cobra.Command{
	Use:   "clear [ID]",
	Short: "Clear a transaction or the entire history",
	Long: `Clear a single transaction from the history, or all of it with --all.

Clearing one transaction renumbers the ones after it so IDs stay contiguous.
Root is required.

Examples:
  pkghistory clear 3        # remove transaction 3, 4 becomes 3
  pkghistory clear --all    # delete the history file`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if clearAll && len(args) > 0 {
			return fmt.Errorf("--all does not take a transaction ID")
		}
		if !clearAll && len(args) != 1 {
			return fmt.Errorf("clear needs a transaction ID or --all")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		if !clearAll {
			var err error
			if id, err = parseTransactionID(args[0]); err != nil {
				return err
			}
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		if clearAll {
			if err := s.service.ClearAll(); err != nil {
				return err
			}
			fmt.Fprintln(out, ui.StylePrefixDone.Render("History has been cleared"))
			return nil
		}

		err = s.service.Clear(id)
		if errors.Is(err, types.ErrNoHistory) {
			fmt.Fprintln(cmd.ErrOrStderr(), "No history exists to clear...")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.StylePrefixDone.Render("History has been altered..."))
		return nil
	},
}

// parseTransactionID accepts positive integers only and returns their canonical form.
func parseTransactionID(raw string) (string, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return "", fmt.Errorf("invalid transaction ID %q: must be a positive number", raw)
	}
	return strconv.Itoa(n), nil
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "Clear the entire history.")
}
