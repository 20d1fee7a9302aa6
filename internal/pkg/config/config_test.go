package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.Notify.Duration != 4*time.Second {
		t.Fatalf("expected 4s notification duration, got %s", cfg.Notify.Duration)
	}
	if cfg.Query.Retry != 1 || cfg.Query.Store != "memory" || cfg.Query.StaleTime != 0 {
		t.Fatalf("unexpected query config: %+v", cfg.Query)
	}
	if cfg.Session.File != "/tmp/xdg/employee-dashboard/cookies.json" {
		t.Fatalf("unexpected session file: %s", cfg.Session.File)
	}
	if cfg.Server.Port != "8000" || cfg.Server.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_URL":      "https://api.example.com",
		"SESSION_FILE": "/var/lib/dash/cookies.json",
		"QUERY_STORE":  "redis",
		"QUERY_RETRY":  "0",
		"REDIS_TTL":    "30s",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Fatalf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.Session.File != "/var/lib/dash/cookies.json" {
		t.Fatalf("unexpected session file: %s", cfg.Session.File)
	}
	if cfg.Query.Store != "redis" || cfg.Query.Retry != 0 || cfg.Redis.TTL != 30*time.Second {
		t.Fatalf("unexpected overrides: %+v %+v", cfg.Query, cfg.Redis)
	}
}

func TestLoadWith_RejectsUnknownStore(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"QUERY_STORE": "memcached",
	}))
	if err == nil || !strings.Contains(err.Error(), "QUERY_STORE") {
		t.Fatalf("expected QUERY_STORE error, got %v", err)
	}
}

func TestLoadWith_RejectsBadDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"NOTIFY_DURATION": "soon",
	}))
	if err == nil {
		t.Fatalf("expected parse error")
	}
}
