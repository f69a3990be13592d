package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Review   ReviewConfig   `mapstructure:"review" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// ReviewConfig contains the tunables of the review engine.
type ReviewConfig struct {
	// MaxPostponeSeconds is the longest a card may be postponed in a
	// single action. Requests exceeding it are rejected.
	MaxPostponeSeconds int `mapstructure:"max_postpone_seconds" validate:"required,gt=0"`
}

// TaskConfig contains settings for the background task runner.
type TaskConfig struct {
	WorkerCount        int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize          int `mapstructure:"queue_size" validate:"required,gt=0"`
	StuckTaskAgeMin    int `mapstructure:"stuck_task_age_min" validate:"required,gt=0"`
	StuckTaskCheckMin  int `mapstructure:"stuck_task_check_min" validate:"required,gt=0"`
	MaxRetries         int `mapstructure:"max_retries" validate:"gte=0"`
	RetryBackoffSecond int `mapstructure:"retry_backoff_second" validate:"gte=0"`
}
