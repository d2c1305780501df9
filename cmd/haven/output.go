package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperengineering/haven"
	"github.com/spf13/cobra"
)

// outputMessage prints a companion message, honoring the --json flag.
func outputMessage(cmd *cobra.Command, msg *haven.CompanionMessage) error {
	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(msg)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, msg.Content)

	meta := msg.Metadata
	fmt.Fprintf(out, "\n(%s, confidence %.2f)\n", meta.ResponseType, meta.Confidence)

	if meta.CheckinType != "" {
		fmt.Fprintf(out, "Check-in: %s\n", meta.CheckinType)
	}
	if len(meta.Insights) > 0 {
		fmt.Fprintln(out, "\nInsights:")
		for _, insight := range meta.Insights {
			fmt.Fprintf(out, "  - %s\n", insight)
		}
	}
	if len(meta.RelevantTechniques) > 0 {
		fmt.Fprintf(out, "\nRelevant techniques: %s\n", strings.Join(meta.RelevantTechniques, ", "))
	}
	if len(meta.HomeworkReminders) > 0 {
		fmt.Fprintln(out, "\nHomework reminders:")
		for _, reminder := range meta.HomeworkReminders {
			fmt.Fprintf(out, "  - %s\n", reminder)
		}
	}
	if len(meta.Suggestions) > 0 {
		fmt.Fprintln(out, "\nSuggestions:")
		for _, s := range meta.Suggestions {
			fmt.Fprintf(out, "  [%s] %s (%s)\n", s.Priority, s.Title, s.Duration)
			fmt.Fprintf(out, "      %s\n", s.Reasoning)
			for i, step := range s.Steps {
				fmt.Fprintf(out, "      %d. %s\n", i+1, step)
			}
		}
	}

	return nil
}
