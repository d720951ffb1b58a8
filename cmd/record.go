/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/josephgoksu/pkghistory/internal/history"
	"github.com/josephgoksu/pkghistory/internal/ui"
	"github.com/josephgoksu/pkghistory/models"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var recordChanges string

// recordCmd appends a finished package operation to the history.
var recordCmd = &cobra.Command{
	Use:   "record [flags] -- COMMAND...",
	Short: "Record a finished package operation",
	Long: `Record a finished package operation as the next transaction.

COMMAND is the argv of the operation, e.g. "install foo". The package changes
are read as JSON from --changes (or stdin), keyed like the history file:

  {"Installed": [["foo", "1.0", "100"]],
   "Upgraded":  [["bar", "2.0", "2048", "1.9"]]}

The date and requesting user are filled in automatically.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changes, err := readChanges(cmd, recordChanges)
		if err != nil {
			return err
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		tx, err := s.service.Record(args, changes)
		if err != nil {
			return err
		}
		summary := ui.CategoryCounts(tx.Counts())
		if summary == "" {
			summary = "no package changes"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded transaction %s (%s)\n", tx.ID, summary)
		return nil
	},
}

// readChanges decodes package changes from path, or stdin when path is "-".
func readChanges(cmd *cobra.Command, path string) (history.Changes, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = afero.ReadFile(appFs, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read package changes: %w", err)
	}

	var raw models.RawTransaction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse package changes: %w", err)
	}
	tx, err := models.DecodeTransaction("new", raw)
	if err != nil {
		return nil, err
	}

	changes := history.Changes{}
	for _, c := range models.Categories {
		if pkgs := tx.Packages(c); len(pkgs) > 0 {
			changes[c] = pkgs
		}
	}
	return changes, nil
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVar(&recordChanges, "changes", "-", "JSON file with the package changes, - for stdin")
}
