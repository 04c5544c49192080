// Package config defines the planner's YAML configuration, its defaults,
// and validation. Files are loaded with viper; every setting can also be
// supplied through TRIPDADDY_* environment variables.
package config

import (
	"time"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/paywall"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/wizard"
)

// Config is the root configuration document.
type Config struct {
	Generation GenerationConfig `mapstructure:"generation"`
	Images     ImagesConfig     `mapstructure:"images"`
	Store      StoreConfig      `mapstructure:"store"`
	Payments   PaymentsConfig   `mapstructure:"payments"`
	Paywall    PaywallConfig    `mapstructure:"paywall"`
	Swipe      SwipeConfig      `mapstructure:"swipe"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// GenerationConfig selects and throttles the chat model.
type GenerationConfig struct {
	// Provider is one of openai, anthropic, or ollama.
	Provider string `mapstructure:"provider"`

	// Model is the provider-specific model name.
	Model string `mapstructure:"model"`

	// APIKey overrides the provider SDK's environment lookup.
	APIKey string `mapstructure:"api_key"`

	// RateLimit caps outbound model calls per second; Burst allows short
	// spikes above it.
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

// ImagesConfig controls day-image hydration.
type ImagesConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// StoreConfig locates the session database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// PaymentsConfig points at the checkout backend. An empty BaseURL
// disables the unlock flow.
type PaymentsConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PaywallConfig sets how many days stay visible before unlocking.
type PaywallConfig struct {
	FreeDays int `mapstructure:"free_days"`
}

// SwipeConfig tunes the question-deck gesture handling.
type SwipeConfig struct {
	Threshold     float64       `mapstructure:"threshold"`
	AnimationLock time.Duration `mapstructure:"animation_lock"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Generation: GenerationConfig{
			Provider:  "openai",
			Model:     "gpt-4o",
			RateLimit: 1,
			Burst:     2,
		},
		Images: ImagesConfig{
			Model: "dall-e-3",
		},
		Store: StoreConfig{
			Path: "~/.tripdaddy/sessions.db",
		},
		Payments: PaymentsConfig{
			Timeout: 10 * time.Second,
		},
		Paywall: PaywallConfig{
			FreeDays: paywall.DefaultFreeDays,
		},
		Swipe: SwipeConfig{
			Threshold:     wizard.DefaultSwipeThreshold,
			AnimationLock: wizard.DefaultAnimationLock,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
