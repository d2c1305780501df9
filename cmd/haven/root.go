package main

import (
	"github.com/hyperengineering/haven"
	"github.com/spf13/cobra"
)

var (
	cfgDBPath  string
	cfgAPIKey  string
	cfgModel   string
	cfgUserID  string
	cfgDebug   bool
	outputJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "haven",
	Short: "Haven - mental health companion engine",
	Long: `Haven is a companion-support engine for mental health apps.

It turns mood logs, journal entries, and chat messages into supportive
responses with prioritized coping suggestions, grounded in the user's
recorded history. Crisis language always takes priority over everything
else.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDBPath, "db-path", "", "Path to local history database (default: ./data/haven.db)")
	rootCmd.PersistentFlags().StringVar(&cfgAPIKey, "api-key", "", "Gemini API key (omit to run offline with template responses)")
	rootCmd.PersistentFlags().StringVar(&cfgModel, "model", "", "Gemini model for response generation")
	rootCmd.PersistentFlags().StringVarP(&cfgUserID, "user", "u", "", "User ID to load history for")
	rootCmd.PersistentFlags().BoolVar(&cfgDebug, "debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output as JSON")

	rootCmd.AddCommand(moodCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(statsCmd)
}

func loadConfig() haven.Config {
	cfg := haven.ConfigFromEnv()

	// Flags override environment
	if cfgDBPath != "" {
		cfg.DBPath = cfgDBPath
	}
	if cfgAPIKey != "" {
		cfg.GeminiAPIKey = cfgAPIKey
	}
	if cfgModel != "" {
		cfg.GenerateModel = cfgModel
	}
	if cfgDebug {
		cfg.Debug = true
	}

	return cfg
}

func newClient() (*haven.Client, error) {
	return haven.New(loadConfig())
}
