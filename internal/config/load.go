package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take precedence
// over values from the config file, and are prefixed with FLASHDECK_
// (e.g. FLASHDECK_SERVER_PORT overrides server.port).
//
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FLASHDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing config file is fine: everything can come from env vars.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers defaults for every setting that has a sensible one.
// Secrets (database URL, JWT secret) deliberately have no default.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 60)

	// Fixed per-rating review delays: again 10m, hard 15m, good 1d, easy 2d.
	v.SetDefault("study.again_interval_ms", 10*60*1000)
	v.SetDefault("study.hard_interval_ms", 15*60*1000)
	v.SetDefault("study.good_interval_ms", 24*60*60*1000)
	v.SetDefault("study.easy_interval_ms", 2*24*60*60*1000)

	v.SetDefault("study.again_xp", 0)
	v.SetDefault("study.hard_xp", 2)
	v.SetDefault("study.good_xp", 5)
	v.SetDefault("study.easy_xp", 8)

	v.SetDefault("study.task_timeout_seconds", 10)
	v.SetDefault("study.task_worker_count", 2)
	v.SetDefault("study.task_queue_size", 100)

	v.SetDefault("gamification.card_created_xp", 5)
	v.SetDefault("gamification.deck_created_xp", 10)
}
