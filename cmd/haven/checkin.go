package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Generate a proactive check-in",
	Long: `Generate a proactive check-in message based on the user's recent
patterns: mood-pattern, session-prep, goal-progress, or general-support.

Example:
  haven checkin -u alice`,
	RunE: runCheckin,
}

func runCheckin(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	msg, err := client.GenerateProactiveCheckin(context.Background(), cfgUserID)
	if err != nil {
		return err
	}

	return outputMessage(cmd, msg)
}
