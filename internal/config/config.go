// Package config manages application configuration.
package config

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
)

// Config represents the application configuration.
type Config struct {
	DefaultProvider string              `yaml:"default_provider" default:"anthropic"`
	Providers       map[string]Provider `yaml:"providers"`
	Generation      GenerationConfig    `yaml:"generation"`
	Store           StoreConfig         `yaml:"store"`
}

// Provider represents an LLM provider configuration.
type Provider struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens" default:"8192"`
	Endpoint  string `yaml:"endpoint,omitempty"` // for Ollama or custom endpoints
}

// GenerationConfig controls deck generation.
type GenerationConfig struct {
	Temperature float64 `yaml:"temperature" default:"0.4"`
	Language    string  `yaml:"language" default:"en"`
	Slides      int     `yaml:"slides" default:"8"`
	// RefreshInterval is the minimum time between two live updates while a
	// deck is streaming.
	RefreshInterval time.Duration `yaml:"refresh_interval" default:"50ms"`
}

// StoreConfig configures the local deck database.
type StoreConfig struct {
	Path string `yaml:"path" default:"~/.deckstream/decks.db"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		Providers: map[string]Provider{
			"openai": {
				APIKey: "${OPENAI_API_KEY}",
				Model:  "gpt-4o-mini",
			},
			"anthropic": {
				APIKey: "${ANTHROPIC_API_KEY}",
				Model:  "claude-sonnet-4-20250514",
			},
			"gemini": {
				APIKey: "${GOOGLE_API_KEY}",
				Model:  "gemini-2.0-flash",
			},
			"ollama": {
				Endpoint: "http://localhost:11434",
				Model:    "llama3.2",
			},
		},
	}
	if err := cfg.ApplyDefaults(); err != nil {
		panic(err)
	}
	return cfg
}

// ApplyDefaults fills every unset field with its default value.
func (c *Config) ApplyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("failed to apply config defaults: %w", err)
	}
	for name, p := range c.Providers {
		if err := defaults.Set(&p); err != nil {
			return fmt.Errorf("failed to apply defaults for provider %s: %w", name, err)
		}
		c.Providers[name] = p
	}
	return nil
}

// GetProvider returns the provider configuration by name.
func (c *Config) GetProvider(name string) (*Provider, bool) {
	p, ok := c.Providers[name]
	if !ok {
		return nil, false
	}
	return &p, true
}

// GetDefaultProvider returns the default provider configuration.
func (c *Config) GetDefaultProvider() (*Provider, bool) {
	return c.GetProvider(c.DefaultProvider)
}

// SetProvider stores the configuration for a provider.
func (c *Config) SetProvider(name string, p Provider) {
	if c.Providers == nil {
		c.Providers = make(map[string]Provider)
	}
	c.Providers[name] = p
}
