package config

import (
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

var validProviders = map[string]bool{
	"openai":    true,
	"anthropic": true,
	"ollama":    true,
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for values the planner cannot run
// with. It reports the first problem found.
func Validate(cfg *Config) error {
	if !validProviders[cfg.Generation.Provider] {
		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
			"unknown generation provider %q", cfg.Generation.Provider)
	}
	if cfg.Generation.Model == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "generation.model is required")
	}
	if cfg.Generation.RateLimit <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "generation.rate_limit must be positive")
	}
	if cfg.Store.Path == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "store.path is required")
	}
	if cfg.Paywall.FreeDays < 1 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "paywall.free_days must be at least 1")
	}
	if cfg.Swipe.Threshold <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "swipe.threshold must be positive")
	}
	if cfg.Swipe.AnimationLock < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "swipe.animation_lock must not be negative")
	}
	if !validLevels[cfg.Logging.Level] {
		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
			"unknown logging level %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
			"unknown logging format %q", cfg.Logging.Format)
	}
	return nil
}
