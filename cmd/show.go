/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/josephgoksu/pkghistory/internal/ui"
	"github.com/josephgoksu/pkghistory/types"
	"github.com/spf13/cobra"
)

// showCmd prints the overview of all transactions.
var showCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list", "ls"},
	Short:   "Show the transaction history",
	Args:    cobra.NoArgs,
	RunE:    runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	rows, err := s.service.ShowSummary()
	if errors.Is(err, types.ErrNoHistory) {
		fmt.Fprintln(cmd.ErrOrStderr(), UserMessage(err))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), ui.RenderSummary(rows, ui.TerminalWidth()))
	return nil
}

func init() {
	rootCmd.AddCommand(showCmd)
}
