package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Store     StoreConfig     `mapstructure:"store"     validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"       validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StoreConfig selects and configures the persistence backend.
// Backend "file" keeps one JSON file per document under DataDir;
// backend "postgres" keeps documents in a key-value table.
type StoreConfig struct {
	Backend     string `mapstructure:"backend"      validate:"required,oneof=file postgres"`
	DataDir     string `mapstructure:"data_dir"     validate:"required_if=Backend file"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Backend postgres,omitempty,url"`
}

// LLMConfig contains all generative-provider settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// MaxRetries is the number of retries after a transient generation
	// failure. RetryDelaySeconds is the base delay for exponential backoff.
	MaxRetries        int `mapstructure:"max_retries"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds"`

	// GenerationTimeoutSeconds bounds one batched generation call.
	GenerationTimeoutSeconds int `mapstructure:"generation_timeout_seconds"`
}

// SchedulerConfig contains the background pregeneration settings.
type SchedulerConfig struct {
	// PregenerateIntervalMinutes is how often the background task checks
	// that the current day's entry is complete. Zero disables the task.
	PregenerateIntervalMinutes int `mapstructure:"pregenerate_interval_minutes"`

	// RetentionDays is how long day entries and settled quiz questions
	// are kept before cleanup. Zero disables cleanup.
	RetentionDays int `mapstructure:"retention_days"`

	// EpochDate overrides the day-1 reference date, formatted 2006-01-02.
	EpochDate string `mapstructure:"epoch_date" validate:"omitempty,datetime=2006-01-02"`
}
