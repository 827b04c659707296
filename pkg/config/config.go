package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/imagegraph/grok-analyzer/pkg/xai"
)

// Config carries everything the environment contributes. It is loaded once at
// process start; node code only ever sees the resulting values.
type Config struct {
	APIKey  string `env:"XAI_API_KEY"`
	BaseURL string `env:"XAI_BASE_URL"`

	RequestTimeout time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:        xai.DefaultBaseURL,
		RequestTimeout: xai.DefaultTimeout,
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = xai.DefaultBaseURL
	}
	return cfg, nil
}
