package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validConfig returns a configuration that passes validation, using dir as
// the CSV directory.
func validConfig(dir string) Config {
	return Config{
		Port:               "8000",
		RateLimitRPM:       120,
		CORSAllowOrigin:    "*",
		ShutdownTimeout:    10 * time.Second,
		CacheTTL:           5 * time.Minute,
		CacheSize:          256,
		DataBackend:        "dir",
		DataDir:            dir,
		SQLiteDBPath:       "./data/findash.db",
		PortfolioValuation: "sum_all",
		Currency:           "COP",
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid dir backend config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid sqlite backend config",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.DataDir = ""
			},
		},
		{
			name: "valid gcs backend config",
			mutate: func(c *Config) {
				c.DataBackend = "gcs"
				c.GCSBucket = "finance-data"
				c.PortfolioValuation = "latest_per_month"
			},
		},
		{
			name: "valid sheets backend config",
			mutate: func(c *Config) {
				c.DataBackend = "sheets"
				c.GoogleSpreadsheetID = "1AbC"
			},
		},
		{
			name:        "sheets backend missing spreadsheet",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "GOOGLE_SPREADSHEET_ID is required when using sheets backend",
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "memory" },
			wantErr:     true,
			errorString: "invalid data backend 'memory': must be one of [dir gcs sheets sqlite]",
		},
		{
			name:        "dir backend with missing directory",
			mutate:      func(c *Config) { c.DataDir = filepath.Join(dir, "missing") },
			wantErr:     true,
			errorString: "does not exist",
		},
		{
			name: "gcs backend missing bucket",
			mutate: func(c *Config) {
				c.DataBackend = "gcs"
			},
			wantErr:     true,
			errorString: "GCS bucket is required when using gcs backend",
		},
		{
			name: "gcs backend with missing credentials file",
			mutate: func(c *Config) {
				c.DataBackend = "gcs"
				c.GCSBucket = "finance-data"
				c.GoogleCredentialsFile = "/non/existent/creds.json"
			},
			wantErr:     true,
			errorString: "Google credentials file does not exist",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "invalid valuation mode",
			mutate:      func(c *Config) { c.PortfolioValuation = "average" },
			wantErr:     true,
			errorString: "invalid portfolio valuation 'average'",
		},
		{
			name:        "unknown currency",
			mutate:      func(c *Config) { c.Currency = "XXZ" },
			wantErr:     true,
			errorString: "unknown currency code 'XXZ'",
		},
		{
			name:        "invalid rate limit",
			mutate:      func(c *Config) { c.RateLimitRPM = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
		{
			name:        "invalid shutdown timeout",
			mutate:      func(c *Config) { c.ShutdownTimeout = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid shutdown timeout 10ms",
		},
		{
			name:        "negative cache ttl",
			mutate:      func(c *Config) { c.CacheTTL = -time.Second },
			wantErr:     true,
			errorString: "invalid response cache TTL",
		},
		{
			name: "cache size ignored when disabled",
			mutate: func(c *Config) {
				c.CacheTTL = 0
				c.CacheSize = 0
			},
		},
		{
			name:        "invalid cache size",
			mutate:      func(c *Config) { c.CacheSize = 0 },
			wantErr:     true,
			errorString: "invalid response cache size 0",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "trace" },
			wantErr:     true,
			errorString: "invalid log level 'trace'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(dir)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig(t.TempDir())
	cfg.Port = "abc"
	cfg.Currency = "XXZ"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "configuration validation failed:") {
		t.Errorf("unexpected prefix: %q", msg)
	}
	if strings.Count(msg, "\n- ") != 2 {
		t.Errorf("expected two problems listed, got %q", msg)
	}
}

func TestLoad(t *testing.T) {
	keys := []string{
		"PORT", "DATA_BACKEND", "DATA_DIR", "SQLITE_DB_PATH", "PORTFOLIO_VALUATION",
		"RATE_LIMIT_RPM", "CURRENCY", "LOG_LEVEL", "TRUSTED_PROXIES", "SHUTDOWN_TIMEOUT",
		"RESPONSE_CACHE_TTL", "RESPONSE_CACHE_SIZE",
	}
	originalVars := map[string]string{}
	for _, key := range keys {
		originalVars[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8000" {
			t.Errorf("Load() Port = %v, want 8000", cfg.Port)
		}
		if cfg.DataBackend != "dir" {
			t.Errorf("Load() DataBackend = %v, want dir", cfg.DataBackend)
		}
		if cfg.DataDir != "./data" {
			t.Errorf("Load() DataDir = %v, want ./data", cfg.DataDir)
		}
		if cfg.PortfolioValuation != "sum_all" {
			t.Errorf("Load() PortfolioValuation = %v, want sum_all", cfg.PortfolioValuation)
		}
		if cfg.RateLimitRPM != 120 {
			t.Errorf("Load() RateLimitRPM = %v, want 120", cfg.RateLimitRPM)
		}
		if cfg.Currency != "COP" {
			t.Errorf("Load() Currency = %v, want COP", cfg.Currency)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
		}
		if cfg.CacheTTL != 5*time.Minute || cfg.CacheSize != 256 {
			t.Errorf("Load() cache = %v/%d, want 5m/256", cfg.CacheTTL, cfg.CacheSize)
		}
		if len(cfg.TrustedProxies) != 0 {
			t.Errorf("Load() TrustedProxies = %v, want none", cfg.TrustedProxies)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("DATA_BACKEND", "sqlite")
		os.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		os.Setenv("PORTFOLIO_VALUATION", "latest_per_month")
		os.Setenv("RATE_LIMIT_RPM", "30")
		os.Setenv("CURRENCY", "usd")
		os.Setenv("LOG_LEVEL", "DEBUG")
		os.Setenv("TRUSTED_PROXIES", "10.0.0.1, ,192.168.1.1")
		os.Setenv("SHUTDOWN_TIMEOUT", "3s")

		cfg := Load()

		if cfg.Port != "9090" || cfg.DataBackend != "sqlite" || cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("unexpected server/backend settings %+v", cfg)
		}
		if cfg.PortfolioValuation != "latest_per_month" || cfg.RateLimitRPM != 30 {
			t.Errorf("unexpected analytics settings %+v", cfg)
		}
		if cfg.Currency != "USD" || cfg.LogLevel != "debug" {
			t.Errorf("expected normalized case, got currency=%s level=%s", cfg.Currency, cfg.LogLevel)
		}
		if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "192.168.1.1" {
			t.Errorf("unexpected trusted proxies %v", cfg.TrustedProxies)
		}
		if cfg.ShutdownTimeout != 3*time.Second {
			t.Errorf("unexpected shutdown timeout %v", cfg.ShutdownTimeout)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("loaded config should validate: %v", err)
		}
	})

	t.Run("invalid numbers fall back to defaults", func(t *testing.T) {
		os.Setenv("RATE_LIMIT_RPM", "lots")
		os.Setenv("SHUTDOWN_TIMEOUT", "soon")

		cfg := Load()
		if cfg.RateLimitRPM != 120 || cfg.ShutdownTimeout != 10*time.Second {
			t.Errorf("expected defaults, got rpm=%d timeout=%v", cfg.RateLimitRPM, cfg.ShutdownTimeout)
		}
	})
}
