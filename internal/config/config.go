package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
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
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains settings for the OpenRouter chat-completions gateway.
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"     validate:"required"`
	APIURL      string  `mapstructure:"api_url"     validate:"required,url"`
	Model       string  `mapstructure:"model"       validate:"required"`
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens"  validate:"required,gt=0"`

	// Retry policy for individual gateway requests.
	MaxRetries          int `mapstructure:"max_retries"            validate:"required,gt=0"`
	RetryInitialDelayMs int `mapstructure:"retry_initial_delay_ms" validate:"required,gt=0"`
	RetryMaxDelayMs     int `mapstructure:"retry_max_delay_ms"     validate:"required,gt=0"`

	// Overall budget for one generation call, enforced by the orchestrator.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}
