package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"WASTEWISE_SESSION_FILE": "/tmp/session.json",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %v, want none", cfg.Timeout)
	}
	if cfg.Latitude != nil || cfg.Longitude != nil {
		t.Errorf("coordinates should be unset")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"WASTEWISE_API_URL":      "https://api.example.com/",
		"WASTEWISE_SESSION_FILE": "/tmp/s.json",
		"WASTEWISE_TIMEOUT":      "15s",
		"WASTEWISE_LAT":          "48.8566",
		"WASTEWISE_LON":          "2.3522",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Errorf("trailing slash not trimmed: %q", cfg.APIURL)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Latitude == nil || *cfg.Latitude != 48.8566 || cfg.Longitude == nil || *cfg.Longitude != 2.3522 {
		t.Errorf("coordinates not parsed: %v %v", cfg.Latitude, cfg.Longitude)
	}
}

func TestLoad_NegativeTimeout(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"WASTEWISE_SESSION_FILE": "/tmp/s.json",
		"WASTEWISE_TIMEOUT":      "-1s",
	}))
	if err == nil {
		t.Fatal("expected error")
	}
}
