package main

import (
	"context"
	"fmt"

	"github.com/hyperengineering/haven"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Chat with therapy history context",
	Long: `Respond to a chat message in light of the user's therapy history:
matched therapeutic techniques, homework reminders, and suggestions.

Example:
  haven chat "I'm feeling anxious about tomorrow" -u alice`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	msg, err := client.IntegrateTherapyHistory(context.Background(), haven.ChatInput{
		UserID:  cfgUserID,
		Message: args[0],
	})
	if err != nil {
		return err
	}

	return outputMessage(cmd, msg)
}
