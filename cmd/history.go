// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"rowbase/cli/internal/history"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command for listing past publishes.
// It reads the local SQLite history database and renders the most recent
// entries as a table.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent publishes from this machine",
	Long: `The history command lists revisions published from this machine, newest
first. The record is kept locally; publishes made elsewhere do not appear.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := history.DefaultPath()
		if err != nil {
			return fmt.Errorf("locating history database: %w", err)
		}
		store, err := history.Open(path)
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer store.Close()

		entries, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No publishes recorded yet.")
			return nil
		}

		rows := pterm.TableData{
			{"When", "Repository", "Dataset", "Version", "Verdict", "Revision"},
		}
		for _, e := range entries {
			rows = append(rows, []string{
				e.CreatedAt.Local().Format("2006-01-02 15:04"),
				e.Owner + "/" + e.Slug,
				e.Dataset,
				fmt.Sprint(e.Version),
				e.Verdict,
				e.RevisionID,
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries to show")
}
