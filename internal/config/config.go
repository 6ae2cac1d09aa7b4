package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Provider
	OpenRouterKey string `env:"OPENROUTER_API_KEY,required"`

	// Storage
	StorageBackend string `env:"CHAT_STORAGE_BACKEND" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`

	// Model invocation
	Model           string   `env:"CHAT_MODEL" envDefault:"mistralai/mistral-7b-instruct"`
	Temperature     float64  `env:"CHAT_TEMPERATURE" envDefault:"0.6"`
	MaxOutputTokens int      `env:"CHAT_MAX_OUTPUT_TOKENS" envDefault:"500"`
	StopSequences   []string `env:"CHAT_STOP_SEQUENCES" envSeparator:"|" envDefault:"User:|Human:|###"`

	// Context assembly
	ContextWindow int `env:"CHAT_CONTEXT_WINDOW" envDefault:"5"`

	// Identity; minted at startup when empty
	UserID string `env:"CHAT_USER_ID"`
}

// Load reads .env if present, then the environment. Validation failures here
// are fatal: the interactive loop must not start on a broken config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	switch cfg.StorageBackend {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required with the postgres backend")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if cfg.ContextWindow <= 0 {
		return nil, fmt.Errorf("CHAT_CONTEXT_WINDOW must be positive, got %d", cfg.ContextWindow)
	}

	return cfg, nil
}
