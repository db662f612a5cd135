package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.Cadence != 30 {
		t.Errorf("expected default cadence 30, got %d", cfg.Cadence)
	}
	if cfg.Language == "" {
		t.Error("expected default language to be set")
	}
	if cfg.Offline {
		t.Error("expected offline to default to false")
	}
}

func TestCadenceDuration(t *testing.T) {
	tests := []struct {
		cadence int
		want    time.Duration
	}{
		{10, 10 * time.Second},
		{30, 30 * time.Second},
		{60, 60 * time.Second},
		{0, 30 * time.Second},  // unset
		{45, 30 * time.Second}, // invalid falls back
	}
	for _, tt := range tests {
		cfg := &Config{Cadence: tt.cadence}
		if got := cfg.CadenceDuration(); got != tt.want {
			t.Errorf("CadenceDuration(%d) = %v, want %v", tt.cadence, got, tt.want)
		}
	}
}

func TestValidateCadence(t *testing.T) {
	if err := validate(&Config{Cadence: 45}); err == nil {
		t.Error("expected error for cadence 45")
	}
	if err := validate(&Config{Cadence: 60}); err != nil {
		t.Errorf("unexpected error for cadence 60: %v", err)
	}
}

func TestValidateProvider(t *testing.T) {
	if err := validate(&Config{AI: &AIConfig{Provider: "gemini"}}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if err := validate(&Config{AI: &AIConfig{Provider: "openai"}}); err != nil {
		t.Errorf("unexpected error for openai: %v", err)
	}
}

func TestValidateStrategy(t *testing.T) {
	if err := validate(&Config{Enrichment: &EnrichmentConfig{Strategy: "scrape"}}); err == nil {
		t.Error("expected error for unknown strategy")
	}
	if err := validate(&Config{Enrichment: &EnrichmentConfig{Strategy: "retrieval"}}); err != nil {
		t.Errorf("unexpected error for retrieval: %v", err)
	}
	if err := validate(&Config{Enrichment: &EnrichmentConfig{NewsAPIURL: "ftp://x"}}); err == nil {
		t.Error("expected error for non-http news url")
	}
}

func TestAIKeyEnvFallback(t *testing.T) {
	t.Setenv("SEEMSMART_AI_KEY", "env-key")

	cfg := &Config{AI: &AIConfig{Provider: "claude"}}
	if !cfg.AIEnabled() {
		t.Error("expected AI enabled via env key")
	}
	if cfg.AIKey() != "env-key" {
		t.Errorf("expected env key, got %q", cfg.AIKey())
	}

	cfg.AI.APIKey = "file-key"
	if cfg.AIKey() != "file-key" {
		t.Errorf("config key should win over env, got %q", cfg.AIKey())
	}
}

func TestAIDisabledWithoutKey(t *testing.T) {
	os.Unsetenv("SEEMSMART_AI_KEY")
	cfg := &Config{AI: &AIConfig{Provider: "claude"}}
	if cfg.AIEnabled() {
		t.Error("expected AI disabled without any key")
	}
	if (&Config{}).AIEnabled() {
		t.Error("expected AI disabled without ai block")
	}
}

func TestStrategyDefault(t *testing.T) {
	if got := (&Config{}).Strategy(); got != "generative" {
		t.Errorf("default strategy = %q, want generative", got)
	}
	cfg := &Config{Enrichment: &EnrichmentConfig{Strategy: "retrieval"}}
	if got := cfg.Strategy(); got != "retrieval" {
		t.Errorf("strategy = %q, want retrieval", got)
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cadence != 30 {
		t.Errorf("expected default cadence, got %d", cfg.Cadence)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected defaults written to %s: %v", path, err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("cadence: [oops"), 0o644)

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}
