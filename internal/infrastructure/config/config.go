package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DefaultJWTSecret is accepted in development only.
const DefaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Port      string        `env:"PORT,      default=8000"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, default=your-secret-key-change-in-production"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	UploadDir        string   `env:"UPLOAD_DIR,         default=uploads"`
	AllowedOrigins   []string `env:"ALLOWED_ORIGINS,    default=http://localhost:3000"`
	RateLimitEnabled bool     `env:"RATE_LIMIT_ENABLED, default=true"`
	EventWorkers     int      `env:"EVENT_WORKERS,      default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=wastewise"`
}

type RedisConfig struct {
	// Addr may be empty, in which case rate limiting is disabled.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesDefaultSecret reports whether the built-in development secret is in use.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.IsProduction() && (cfg.JWTSecret == "" || cfg.UsesDefaultSecret()) {
		return nil, errors.New("load config: JWT_SECRET must be set in production")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("load config: TOKEN_TTL must be positive")
	}
	return &cfg, nil
}
