package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history store statistics",
	Long: `Display statistics about the local history store.

Example:
  haven stats`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	stats, err := client.Store().Stats()
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "History Store Statistics")
	fmt.Fprintln(cmd.OutOrStdout(), "------------------------")
	fmt.Fprintf(cmd.OutOrStdout(), "Mood entries:     %d\n", stats.MoodEntries)
	fmt.Fprintf(cmd.OutOrStdout(), "Journal entries:  %d\n", stats.JournalEntries)
	fmt.Fprintf(cmd.OutOrStdout(), "Therapy sessions: %d\n", stats.TherapySessions)
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version:   %s\n", stats.SchemaVersion)
	return nil
}
