package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Cadences lists the valid analysis intervals, in seconds.
var Cadences = []int{10, 30, 60}

type AIConfig struct {
	Provider string `yaml:"provider"` // "claude" or "openai"
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type EnrichmentConfig struct {
	Strategy   string `yaml:"strategy"` // "generative" or "retrieval"
	NewsAPIKey string `yaml:"news_api_key"`
	NewsAPIURL string `yaml:"news_api_url"`
}

type Config struct {
	Cadence    int               `yaml:"cadence"`  // seconds between analysis cycles
	Language   string            `yaml:"language"` // locale tag passed to the AI
	Offline    bool              `yaml:"offline"`
	AI         *AIConfig         `yaml:"ai,omitempty"`
	Enrichment *EnrichmentConfig `yaml:"enrichment,omitempty"`
}

// AIEnabled returns true if AI is configured with a valid API key.
func (c *Config) AIEnabled() bool {
	if c.AI == nil {
		return false
	}
	key := c.AI.APIKey
	if key == "" {
		key = os.Getenv("SEEMSMART_AI_KEY")
	}
	return key != ""
}

// AIKey returns the resolved API key (config or env var).
func (c *Config) AIKey() string {
	if c.AI != nil && c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	return os.Getenv("SEEMSMART_AI_KEY")
}

// NewsKey returns the resolved news API key (config or env var).
func (c *Config) NewsKey() string {
	if c.Enrichment != nil && c.Enrichment.NewsAPIKey != "" {
		return c.Enrichment.NewsAPIKey
	}
	return os.Getenv("SEEMSMART_NEWS_KEY")
}

// Strategy returns the configured enrichment strategy, defaulting to
// "generative".
func (c *Config) Strategy() string {
	if c.Enrichment == nil || c.Enrichment.Strategy == "" {
		return "generative"
	}
	return c.Enrichment.Strategy
}

// CadenceDuration returns the analysis interval, defaulting to 30s for
// unset or invalid values.
func (c *Config) CadenceDuration() time.Duration {
	for _, v := range Cadences {
		if c.Cadence == v {
			return time.Duration(v) * time.Second
		}
	}
	return 30 * time.Second
}

// Lang returns the configured language tag, defaulting to pt-BR.
func (c *Config) Lang() string {
	if c.Language == "" {
		return "pt-BR"
	}
	return c.Language
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "seemsmart", "config.yaml")
}

func StorePath() string {
	return filepath.Join(xdg.CacheHome, "seemsmart", "feed.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.Cadence != 0 {
		ok := false
		for _, v := range Cadences {
			if cfg.Cadence == v {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("cadence must be one of %v, got %d", Cadences, cfg.Cadence)
		}
	}

	if cfg.AI != nil && cfg.AI.Provider != "claude" && cfg.AI.Provider != "openai" {
		return fmt.Errorf("ai provider must be claude or openai, got %q", cfg.AI.Provider)
	}

	if cfg.Enrichment != nil {
		switch cfg.Enrichment.Strategy {
		case "", "generative", "retrieval":
		default:
			return fmt.Errorf("enrichment strategy must be generative or retrieval, got %q", cfg.Enrichment.Strategy)
		}
		if cfg.Enrichment.NewsAPIURL != "" {
			u, err := url.Parse(cfg.Enrichment.NewsAPIURL)
			if err != nil {
				return fmt.Errorf("enrichment news_api_url: %w", err)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("enrichment news_api_url scheme must be http or https, got %q", u.Scheme)
			}
		}
	}

	return nil
}
