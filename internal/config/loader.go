package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "~/.tripdaddy/config.yaml"

// Load reads the YAML file at path, layers TRIPDADDY_* environment
// variables on top, validates, and returns the result. A missing file is
// an error; use LoadWithDefaults for the optional-file behavior.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(expandHome(path))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "could not read config file", err)
	}
	return finish(v)
}

// LoadWithDefaults behaves like Load but falls back to DefaultConfig
// (still layered with environment variables) when the file is absent.
func LoadWithDefaults(path string) (*Config, error) {
	resolved := expandHome(path)
	if _, err := os.Stat(resolved); os.IsNotExist(err) {
		return finish(newViper())
	}
	return Load(path)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TRIPDADDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("generation.provider", def.Generation.Provider)
	v.SetDefault("generation.model", def.Generation.Model)
	v.SetDefault("generation.rate_limit", def.Generation.RateLimit)
	v.SetDefault("generation.burst", def.Generation.Burst)
	v.SetDefault("images.enabled", def.Images.Enabled)
	v.SetDefault("images.model", def.Images.Model)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("payments.timeout", def.Payments.Timeout)
	v.SetDefault("paywall.free_days", def.Paywall.FreeDays)
	v.SetDefault("swipe.threshold", def.Swipe.Threshold)
	v.SetDefault("swipe.animation_lock", def.Swipe.AnimationLock)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
}

func finish(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "could not parse config", err)
	}
	applyEnv(&cfg)
	cfg.Store.Path = expandHome(cfg.Store.Path)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv copies secrets from the conventional provider variables when
// the config leaves them blank.
func applyEnv(cfg *Config) {
	if cfg.Generation.APIKey == "" {
		switch cfg.Generation.Provider {
		case "openai":
			cfg.Generation.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.Generation.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.Images.APIKey == "" {
		cfg.Images.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
