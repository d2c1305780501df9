package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperengineering/haven"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Append entries to the history store",
	Long: `Append mood entries, journal entries, or therapy session records
to the user's history. Logged history feeds context for later responses.`,
}

var (
	logMoodValue   int
	logMoodTrigger string

	logJournalMood int
	logJournalTags []string

	logSessionDate       string
	logSessionNotes      string
	logSessionGoals      []string
	logSessionHomework   []string
	logSessionTechniques []string
)

var logMoodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Log a mood entry",
	Long: `Log a mood entry without generating a response.

Example:
  haven log mood -u alice -v 4 --trigger "poor sleep"`,
	RunE: runLogMood,
}

var logJournalCmd = &cobra.Command{
	Use:   "journal <text>",
	Short: "Log a journal entry",
	Long: `Log a journal entry without generating a response.

Example:
  haven log journal -u alice "Felt calmer after the morning walk" --tag gratitude`,
	Args: cobra.ExactArgs(1),
	RunE: runLogJournal,
}

var logSessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Log a therapy session record",
	Long: `Log a therapy session record: notes, goals, homework, techniques.

Example:
  haven log session -u alice --notes "Worked on thought records" \
    --goal "Practice reframing" --homework "Daily mood tracking" --technique CBT`,
	RunE: runLogSession,
}

func init() {
	logMoodCmd.Flags().IntVarP(&logMoodValue, "value", "v", 0, "Mood value on a 1-10 scale (required)")
	logMoodCmd.Flags().StringVar(&logMoodTrigger, "trigger", "", "What prompted the mood")
	logMoodCmd.MarkFlagRequired("value")

	logJournalCmd.Flags().IntVar(&logJournalMood, "mood", 0, "Mood at time of writing (1-10, optional)")
	logJournalCmd.Flags().StringArrayVar(&logJournalTags, "tag", nil, "Tag for the entry (repeatable)")

	logSessionCmd.Flags().StringVar(&logSessionDate, "date", "", "Session date, RFC3339 or YYYY-MM-DD (default: now)")
	logSessionCmd.Flags().StringVar(&logSessionNotes, "notes", "", "Session notes")
	logSessionCmd.Flags().StringArrayVar(&logSessionGoals, "goal", nil, "Session goal (repeatable)")
	logSessionCmd.Flags().StringArrayVar(&logSessionHomework, "homework", nil, "Assigned homework item (repeatable)")
	logSessionCmd.Flags().StringArrayVar(&logSessionTechniques, "technique", nil, "Technique used (repeatable)")

	logCmd.AddCommand(logMoodCmd)
	logCmd.AddCommand(logJournalCmd)
	logCmd.AddCommand(logSessionCmd)
}

func runLogMood(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	entry, err := client.Store().LogMood(context.Background(), haven.MoodEntry{
		UserID:    cfgUserID,
		MoodValue: logMoodValue,
		Trigger:   logMoodTrigger,
	})
	if err != nil {
		return fmt.Errorf("log mood: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged mood %d/10 [%s]\n", entry.MoodValue, entry.ID)
	return nil
}

func runLogJournal(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	entry := haven.JournalEntry{
		UserID:  cfgUserID,
		Content: args[0],
		Tags:    logJournalTags,
	}
	if cmd.Flags().Changed("mood") {
		mood := logJournalMood
		entry.MoodValue = &mood
	}

	logged, err := client.Store().AddJournalEntry(context.Background(), entry)
	if err != nil {
		return fmt.Errorf("log journal: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged journal entry [%s]\n", logged.ID)
	return nil
}

func runLogSession(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	session := haven.TherapySession{
		UserID:     cfgUserID,
		Notes:      logSessionNotes,
		Goals:      logSessionGoals,
		Homework:   logSessionHomework,
		Techniques: logSessionTechniques,
	}
	if logSessionDate != "" {
		date, err := parseDate(logSessionDate)
		if err != nil {
			return err
		}
		session.Date = date
	}

	added, err := client.Store().AddSession(context.Background(), session)
	if err != nil {
		return fmt.Errorf("log session: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded therapy session [%s]\n", added.ID)
	return nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use RFC3339 or YYYY-MM-DD", s)
}
