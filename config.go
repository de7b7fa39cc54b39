package skroll

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, read once from the environment at
// startup and treated as immutable. Missing OAuth credentials or a missing
// session secret are fatal: per-request recovery from a misconfigured
// deployment is not a thing.
type Config struct {
	Port        string `env:"PORT" envDefault:"3001"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	SessionSecret   string        `env:"SESSION_SECRET,required"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,required"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,required"`
	GoogleCallbackURL  string `env:"GOOGLE_CALLBACK_URL,required"`

	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`
}

// LoadConfig parses the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
