package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Host           string   `env:"HOST" envDefault:"127.0.0.1"`
	Port           string   `env:"PORT" envDefault:"8080"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string   `env:"LOG_FORMAT" envDefault:"console"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	Facebook  FacebookConfig  `envPrefix:"FB_"`
	Functions FunctionsConfig `envPrefix:"FUNCTIONS_"`
	Session   SessionConfig   `envPrefix:"SESSION_"`
}

type FacebookConfig struct {
	AppID          string   `env:"APP_ID" envDefault:"1022102683426026"`
	AppSecret      string   `env:"APP_SECRET"`
	APIVersion     string   `env:"API_VERSION" envDefault:"v20.0"`
	RedirectURL    string   `env:"REDIRECT_URL" envDefault:"http://localhost:8080/auth/callback"`
	Scopes         []string `env:"SCOPES" envDefault:"pages_messaging,pages_show_list" envSeparator:","`
	RevokeOnLogout bool     `env:"REVOKE_ON_LOGOUT"`
}

type FunctionsConfig struct {
	BaseURL string `env:"BASE_URL" envDefault:"https://butjwogzvvoulankayaj.supabase.co/functions/v1"`
	// Zero means no client-side timeout.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"0s"`
}

type SessionConfig struct {
	Backend string `env:"BACKEND" envDefault:"file"`
	Dir     string `env:"DIR"`
	Key     string `env:"KEY" envDefault:"fb_access_token"`
}

// Load reads an optional .env file and then the process environment.
// A missing file at path is not an error.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Session.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.Session.Dir = home + string(os.PathSeparator) + ".messenger-broadcast"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Session.Backend {
	case BackendFile, BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres session backend")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend)
	}

	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return errors.New("CORS_ALLOWED_ORIGINS must list explicit origins, not *")
		}
	}

	if c.Session.Key == "" {
		return errors.New("SESSION_KEY must not be empty")
	}
	if c.Facebook.AppID == "" {
		return errors.New("FB_APP_ID is not set")
	}
	if c.Functions.BaseURL == "" {
		return errors.New("FUNCTIONS_BASE_URL is not set")
	}
	return nil
}

func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// OwnerKey is the durable key holding the id of the browser that owns the
// stored token.
func (c SessionConfig) OwnerKey() string {
	return c.Key + "_owner"
}
