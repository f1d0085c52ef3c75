package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Server
	Port int `env:"PORT" envDefault:"8080"`

	// Credentials and connection info. Both are optional at startup:
	// a handler that needs a missing one answers 500 per request, the
	// rest of the service keeps working.
	DatabaseURL string `env:"DATABASE_URL"`
	OpenAIKey   string `env:"OPENAI_API_KEY"`

	// Provider endpoints, overridable for tests and self-hosting.
	TextGenURL    string `env:"TEXTGEN_URL" envDefault:"https://api-inference.huggingface.co/models/microsoft/DialoGPT-large"`
	ImageGenURL   string `env:"IMAGEGEN_URL" envDefault:"https://image.pollinations.ai/prompt"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	// Migrations run on startup when a database is configured.
	RunMigrations bool `env:"RUN_MIGRATIONS" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIKey != ""
}
