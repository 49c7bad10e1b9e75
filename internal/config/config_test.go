package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port '8080', got '%s'", cfg.Port)
	}
	if cfg.IntentThreshold != 0.75 {
		t.Errorf("Expected default intent threshold 0.75, got %v", cfg.IntentThreshold)
	}
	if cfg.RetrievalTopK != 7 {
		t.Errorf("Expected default retrieval top-K 7, got %d", cfg.RetrievalTopK)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("Expected default session TTL 30m, got %v", cfg.SessionTTL)
	}
	if cfg.ScraperMaxRetries != 3 {
		t.Errorf("Expected default max retries 3, got %d", cfg.ScraperMaxRetries)
	}
	if cfg.HasGemini() {
		t.Error("Expected Gemini disabled without GEMINI_API_KEY")
	}
}

func TestLoadFromEnv(t *testing.T) {
	_ = os.Setenv("INTENT_THRESHOLD", "0.9")
	_ = os.Setenv("SESSION_TTL", "5m")
	_ = os.Setenv("GEMINI_API_KEY", "test_key")
	defer func() {
		_ = os.Unsetenv("INTENT_THRESHOLD")
		_ = os.Unsetenv("SESSION_TTL")
		_ = os.Unsetenv("GEMINI_API_KEY")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.IntentThreshold != 0.9 {
		t.Errorf("Expected intent threshold 0.9, got %v", cfg.IntentThreshold)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("Expected session TTL 5m, got %v", cfg.SessionTTL)
	}
	if !cfg.HasGemini() {
		t.Error("Expected Gemini enabled with GEMINI_API_KEY set")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing data dir", func(c *Config) { c.DataDir = "" }, true},
		{"threshold above one", func(c *Config) { c.IntentThreshold = 1.5 }, true},
		{"negative threshold", func(c *Config) { c.IntentThreshold = -0.1 }, true},
		{"zero top-K", func(c *Config) { c.RetrievalTopK = 0 }, true},
		{"zero session TTL", func(c *Config) { c.SessionTTL = 0 }, true},
		{"zero db retries", func(c *Config) { c.DBConnectRetries = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSQLitePath(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/campusbot"}
	want := filepath.Join("/var/lib/campusbot", "campus.db")
	if got := cfg.SQLitePath(); got != want {
		t.Errorf("SQLitePath() = %s, want %s", got, want)
	}
}
