package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"       validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database"     validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth"         validate:"required"`
	Study        StudyConfig        `mapstructure:"study"        validate:"required"`
	Gamification GamificationConfig `mapstructure:"gamification" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// StudyConfig contains the tunables of the study scheduler: the fixed
// per-rating review intervals, the per-rating XP awards that feed the session
// summary, and the background task runner used for fire-and-forget review
// logging and profile persistence.
type StudyConfig struct {
	// Per-rating next-review delays, in milliseconds.
	AgainIntervalMs int64 `mapstructure:"again_interval_ms" validate:"gt=0"`
	HardIntervalMs  int64 `mapstructure:"hard_interval_ms"  validate:"gt=0"`
	GoodIntervalMs  int64 `mapstructure:"good_interval_ms"  validate:"gt=0"`
	EasyIntervalMs  int64 `mapstructure:"easy_interval_ms"  validate:"gt=0"`

	// Per-rating XP awarded per card in the session summary.
	AgainXP int `mapstructure:"again_xp" validate:"gte=0"`
	HardXP  int `mapstructure:"hard_xp"  validate:"gte=0"`
	GoodXP  int `mapstructure:"good_xp"  validate:"gte=0"`
	EasyXP  int `mapstructure:"easy_xp"  validate:"gte=0"`

	// Background task runner settings.
	TaskTimeoutSeconds int `mapstructure:"task_timeout_seconds" validate:"required,gt=0"`
	TaskWorkerCount    int `mapstructure:"task_worker_count"    validate:"required,gt=0"`
	TaskQueueSize      int `mapstructure:"task_queue_size"      validate:"required,gt=0"`
}

// GamificationConfig contains the XP values granted for standalone actions
// outside of study sessions.
type GamificationConfig struct {
	CardCreatedXP int `mapstructure:"card_created_xp" validate:"gte=0"`
	DeckCreatedXP int `mapstructure:"deck_created_xp" validate:"gte=0"`
}
