package config

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig holds the two independent token secrets and lifetimes. The
// secrets are what distinguish an access token from a refresh token; there
// is no kind field in the payload.
type AuthConfig struct {
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL,  default=24h"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL, default=240h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=media_api"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the auth core cannot run with. Tokens
// signed with an empty secret would be trivially forgeable, so a missing
// secret is fatal at startup.
func (c *Config) Validate() error {
	if c.Auth.AccessTokenSecret == "" {
		return errors.New("config: ACCESS_TOKEN_SECRET is required")
	}
	if c.Auth.RefreshTokenSecret == "" {
		return errors.New("config: REFRESH_TOKEN_SECRET is required")
	}
	if c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		return errors.New("config: access and refresh token secrets must differ")
	}
	return nil
}
