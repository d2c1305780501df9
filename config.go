package haven

import (
	"os"
	"path/filepath"
	"time"
)

// Config configures the Haven engine.
type Config struct {
	// DBPath is the path to the local SQLite history database.
	DBPath string

	// GeminiAPIKey authenticates with the Gemini API. If empty, the engine
	// runs in offline mode and every response uses the deterministic
	// fallback templates.
	GeminiAPIKey string

	// GenerateModel is the Gemini model used for response composition.
	// Defaults to "gemini-2.0-flash".
	GenerateModel string

	// GenerateTimeout bounds each generative-text call.
	// Defaults to 10 seconds.
	GenerateTimeout time.Duration

	// SessionLeadWindow is how far ahead an upcoming therapy session
	// triggers a session-prep check-in. Defaults to 3 days.
	SessionLeadWindow time.Duration

	// CrisisWebhookURL, if set, receives a POST whenever the crisis branch
	// fires so a human therapist can be alerted. Best-effort delivery.
	CrisisWebhookURL string

	// CrisisWebhookKey authenticates with the crisis webhook.
	CrisisWebhookKey string

	// SourceID identifies this engine instance in outbound requests.
	// Defaults to hostname.
	SourceID string

	// Debug enables verbose logging of store reads, generative calls,
	// degraded fallbacks, and crisis alerts.
	Debug bool

	// DebugLogPath is the path to write debug logs.
	// Defaults to stderr if empty.
	DebugLogPath string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	hostname, _ := os.Hostname()
	return Config{
		DBPath:            filepath.Join("data", "haven.db"),
		GenerateModel:     "gemini-2.0-flash",
		GenerateTimeout:   10 * time.Second,
		SessionLeadWindow: 3 * 24 * time.Hour,
		SourceID:          hostname,
	}
}

// ConfigFromEnv reads configuration from environment variables.
//
//	HAVEN_DB_PATH         → DBPath
//	GEMINI_API_KEY        → GeminiAPIKey
//	HAVEN_GEN_MODEL       → GenerateModel
//	HAVEN_CRISIS_WEBHOOK  → CrisisWebhookURL
//	HAVEN_CRISIS_KEY      → CrisisWebhookKey
//	HAVEN_SOURCE_ID       → SourceID
//	HAVEN_DEBUG           → Debug (any non-empty value enables)
//	HAVEN_DEBUG_LOG       → DebugLogPath
func ConfigFromEnv() Config {
	return Config{
		DBPath:           os.Getenv("HAVEN_DB_PATH"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GenerateModel:    os.Getenv("HAVEN_GEN_MODEL"),
		CrisisWebhookURL: os.Getenv("HAVEN_CRISIS_WEBHOOK"),
		CrisisWebhookKey: os.Getenv("HAVEN_CRISIS_KEY"),
		SourceID:         os.Getenv("HAVEN_SOURCE_ID"),
		Debug:            os.Getenv("HAVEN_DEBUG") != "",
		DebugLogPath:     os.Getenv("HAVEN_DEBUG_LOG"),
	}
}

// Validate checks the configuration for errors.
// Returns *ValidationError for invalid fields.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return &ValidationError{Field: "DBPath", Message: "required: path to SQLite database"}
	}
	if c.GenerateTimeout < 0 {
		return &ValidationError{Field: "GenerateTimeout", Message: "must be non-negative"}
	}
	if c.SessionLeadWindow < 0 {
		return &ValidationError{Field: "SessionLeadWindow", Message: "must be non-negative"}
	}
	if c.CrisisWebhookURL != "" && c.CrisisWebhookKey == "" {
		return &ValidationError{Field: "CrisisWebhookKey", Message: "required when CrisisWebhookURL is set"}
	}
	return nil
}

// IsOffline reports whether the engine runs without a generative backend.
func (c *Config) IsOffline() bool {
	return c.GeminiAPIKey == ""
}

// WithDefaults fills in default values for unset fields.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()

	if c.DBPath == "" {
		c.DBPath = defaults.DBPath
	}
	if c.GenerateModel == "" {
		c.GenerateModel = defaults.GenerateModel
	}
	if c.GenerateTimeout == 0 {
		c.GenerateTimeout = defaults.GenerateTimeout
	}
	if c.SessionLeadWindow == 0 {
		c.SessionLeadWindow = defaults.SessionLeadWindow
	}
	if c.SourceID == "" {
		c.SourceID = defaults.SourceID
	}

	return c
}
