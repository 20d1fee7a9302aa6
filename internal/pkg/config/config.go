package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is shared by the dashboard client and the stub API server; each
// binary reads only the sections it needs.
type Config struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	API     APIConfig
	Session SessionConfig
	Notify  NotifyConfig
	Query   QueryConfig
	Redis   RedisConfig
	Server  ServerConfig
	Mongo   MongoConfig
}

type APIConfig struct {
	BaseURL string        `env:"API_URL,     default=http://localhost:8000"`
	Timeout time.Duration `env:"API_TIMEOUT, default=15s"`
}

type SessionConfig struct {
	// File holds the cookie store. Empty resolves to the XDG config dir.
	File string `env:"SESSION_FILE"`
}

type NotifyConfig struct {
	Duration time.Duration `env:"NOTIFY_DURATION, default=4s"`
}

type QueryConfig struct {
	Retry      int           `env:"QUERY_RETRY,       default=1"`
	RetryDelay time.Duration `env:"QUERY_RETRY_DELAY, default=1s"`
	StaleTime  time.Duration `env:"QUERY_STALE_TIME,  default=0s"`
	Store      string        `env:"QUERY_STORE,       default=memory"`
}

type RedisConfig struct {
	Addr   string        `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int           `env:"REDIS_DB,     default=0"`
	Prefix string        `env:"REDIS_PREFIX, default=dashboard:query"`
	TTL    time.Duration `env:"REDIS_TTL,    default=10m"`
}

type ServerConfig struct {
	Port              string        `env:"PORT,                default=8000"`
	JWTSecret         string        `env:"JWT_SECRET,          default=dev-secret"`
	TokenTTL          time.Duration `env:"TOKEN_TTL,           default=24h"`
	SeedAdminEmail    string        `env:"SEED_ADMIN_EMAIL,    default=admin@example.com"`
	SeedAdminPassword string        `env:"SEED_ADMIN_PASSWORD, default=admin123"`
	MetricsAddr       string        `env:"METRICS_ADDR"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=employee_directory"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through an arbitrary lookuper. Tests pass an
// envconfig.MapLookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if cfg.Session.File == "" {
		cfg.Session.File = DefaultSessionFile()
	}
	if cfg.Query.Store != "memory" && cfg.Query.Store != "redis" {
		return nil, fmt.Errorf("QUERY_STORE must be memory or redis, got %q", cfg.Query.Store)
	}
	if cfg.Query.Retry < 0 {
		return nil, fmt.Errorf("QUERY_RETRY must not be negative, got %d", cfg.Query.Retry)
	}
	return &cfg, nil
}

// DefaultSessionFile returns $XDG_CONFIG_HOME/employee-dashboard/cookies.json,
// falling back to ~/.config and finally the temp dir.
func DefaultSessionFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "employee-dashboard-cookies.json")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "employee-dashboard", "cookies.json")
}
