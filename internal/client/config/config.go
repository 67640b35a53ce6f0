// Package config loads the client's settings from WASTEWISE_* variables.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIURL string `env:"WASTEWISE_API_URL, default=http://localhost:8000"`
	// SessionFile defaults to ~/.wastewise/session.json.
	SessionFile string `env:"WASTEWISE_SESSION_FILE"`
	GeocoderURL string `env:"WASTEWISE_GEOCODER_URL, default=https://nominatim.openstreetmap.org"`
	// Timeout of zero leaves requests unbounded.
	Timeout  time.Duration `env:"WASTEWISE_TIMEOUT, default=0s"`
	LogLevel string        `env:"LOG_LEVEL, default=warn"`

	// Latitude and Longitude stand in for platform geolocation.
	Latitude  *float64 `env:"WASTEWISE_LAT, noinit"`
	Longitude *float64 `env:"WASTEWISE_LON, noinit"`
}

// Load reads the client configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("load client config: WASTEWISE_TIMEOUT must not be negative")
	}
	if cfg.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("load client config: resolve home: %w", err)
		}
		cfg.SessionFile = filepath.Join(home, ".wastewise", "session.json")
	}
	return &cfg, nil
}
