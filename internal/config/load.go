package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// CARDS_SERVER_PORT or CARDS_LLM_API_KEY.
const envPrefix = "CARDS"

// Load reads configuration from an optional config file and environment
// variables, applies defaults, and validates the result. Environment
// variables take precedence over values from the config file.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config.yaml in the working directory or /etc/cards-api.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/cards-api")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars may carry everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values for settings that have a sensible
// out-of-the-box behavior. Secrets (database URL, JWT secret, API key) have
// no defaults on purpose.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080) // 7 days

	v.SetDefault("llm.api_url", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("llm.model", "openai/gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_initial_delay_ms", 1000)
	v.SetDefault("llm.retry_max_delay_ms", 5000)
	v.SetDefault("llm.timeout_seconds", 60)

	// Bind keys with no default so AutomaticEnv can see them.
	for _, key := range []string{"database.url", "auth.jwt_secret", "llm.api_key"} {
		if err := v.BindEnv(key); err != nil {
			// BindEnv only errors on an empty key list.
			panic(err)
		}
	}
}
