package main

import (
	"context"
	"fmt"

	"github.com/hyperengineering/haven"
	"github.com/spf13/cobra"
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Respond to a mood log",
	Long: `Respond to a fresh mood log with support and coping suggestions.

Example:
  haven mood --value 3 --trigger "work deadline" -u alice
  haven mood -v 7 --json`,
	RunE: runMood,
}

var (
	moodValue   int
	moodTrigger string
)

func init() {
	moodCmd.Flags().IntVarP(&moodValue, "value", "v", 0, "Mood value on a 1-10 scale (required)")
	moodCmd.Flags().StringVar(&moodTrigger, "trigger", "", "What prompted the mood (optional)")

	moodCmd.MarkFlagRequired("value")
}

func runMood(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	msg, err := client.HandleMoodTrigger(context.Background(), haven.MoodTriggerInput{
		UserID:  cfgUserID,
		Mood:    moodValue,
		Trigger: moodTrigger,
	})
	if err != nil {
		return err
	}

	return outputMessage(cmd, msg)
}
