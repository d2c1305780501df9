package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperengineering/haven"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal [text]",
	Short: "Analyze a journal entry",
	Long: `Analyze a journal entry for emotional themes and respond with
insights and coping suggestions. Reads the entry from the argument,
or from stdin when no argument is given.

Example:
  haven journal "Work has been overwhelming lately..." -u alice
  cat entry.txt | haven journal -u alice`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJournal,
}

func runJournal(cmd *cobra.Command, args []string) error {
	var content string
	if len(args) > 0 {
		content = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		content = strings.TrimSpace(string(data))
	}

	client, err := newClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	msg, err := client.AnalyzeJournalEntry(context.Background(), haven.JournalInput{
		UserID:  cfgUserID,
		Content: content,
	})
	if err != nil {
		return err
	}

	return outputMessage(cmd, msg)
}
