package haven

import (
	"errors"
	"testing"
	"time"
)

// TestDefaultConfig verifies the documented defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DBPath == "" {
		t.Error("expected default DBPath")
	}
	if cfg.GenerateModel != "gemini-2.0-flash" {
		t.Errorf("unexpected default model: %q", cfg.GenerateModel)
	}
	if cfg.GenerateTimeout != 10*time.Second {
		t.Errorf("unexpected default timeout: %v", cfg.GenerateTimeout)
	}
	if cfg.SessionLeadWindow != 3*24*time.Hour {
		t.Errorf("unexpected default lead window: %v", cfg.SessionLeadWindow)
	}
}

// TestConfigFromEnv verifies environment mapping.
func TestConfigFromEnv(t *testing.T) {
	t.Setenv("HAVEN_DB_PATH", "/tmp/haven-test.db")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("HAVEN_GEN_MODEL", "gemini-2.5-pro")
	t.Setenv("HAVEN_DEBUG", "1")

	cfg := ConfigFromEnv()
	if cfg.DBPath != "/tmp/haven-test.db" {
		t.Errorf("DBPath not read from env: %q", cfg.DBPath)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey not read from env: %q", cfg.GeminiAPIKey)
	}
	if cfg.GenerateModel != "gemini-2.5-pro" {
		t.Errorf("GenerateModel not read from env: %q", cfg.GenerateModel)
	}
	if !cfg.Debug {
		t.Error("Debug not read from env")
	}
}

// TestConfigValidate covers the validation rules.
func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	if err := valid.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"missing db path", func(c *Config) { c.DBPath = "" }, "DBPath"},
		{"negative timeout", func(c *Config) { c.GenerateTimeout = -time.Second }, "GenerateTimeout"},
		{"negative lead window", func(c *Config) { c.SessionLeadWindow = -time.Hour }, "SessionLeadWindow"},
		{"webhook without key", func(c *Config) { c.CrisisWebhookURL = "https://example.com/alerts" }, "CrisisWebhookKey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, verr.Field)
			}
		})
	}
}

// TestConfigIsOffline verifies offline detection by API key presence.
func TestConfigIsOffline(t *testing.T) {
	cfg := Config{}
	if !cfg.IsOffline() {
		t.Error("empty API key should read offline")
	}
	cfg.GeminiAPIKey = "key"
	if cfg.IsOffline() {
		t.Error("configured API key should read online")
	}
}

// TestConfigWithDefaults verifies unset fields fill in while set fields
// survive.
func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{DBPath: "/custom/path.db"}.WithDefaults()

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("set DBPath overwritten: %q", cfg.DBPath)
	}
	if cfg.GenerateModel == "" || cfg.GenerateTimeout == 0 || cfg.SessionLeadWindow == 0 {
		t.Errorf("defaults not filled: %+v", cfg)
	}
}
