package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Exam     ExamConfig     `mapstructure:"exam" validate:"required"`
	Events   EventsConfig   `mapstructure:"events" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL runs the server on in-memory stores.
type DatabaseConfig struct {
	URL            string `mapstructure:"url" validate:"omitempty,url"`
	MaxOpenConns   int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// RedisConfig configures the optional Redis checkpoint store. When URL is
// empty, checkpoints are kept with the other entities.
type RedisConfig struct {
	URL                  string `mapstructure:"url" validate:"omitempty,url"`
	CheckpointTTLMinutes int    `mapstructure:"checkpoint_ttl_minutes" validate:"gte=0"`
}

// ExamConfig contains settings applied to every exam attempt.
type ExamConfig struct {
	TimeLimitMinutes int `mapstructure:"time_limit_minutes" validate:"required,gt=0"`
}

// EventsConfig sizes the background workers that deliver session events.
type EventsConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
}
