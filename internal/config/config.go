package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
)

// Valid values of the enumerated settings.
var (
	DataBackends   = []string{"dir", "gcs", "sheets", "sqlite"}
	ValuationModes = []string{"sum_all", "latest_per_month"}
	LogLevels      = []string{"debug", "info", "warn", "error"}
	LogFormats     = []string{"text", "json"}
)

const defaultRateLimitRPM = 120

type Config struct {
	// HTTP Server
	Port            string
	RateLimitRPM    int
	CORSAllowOrigin string
	TrustedProxies  []string
	ShutdownTimeout time.Duration

	// Response cache; a zero TTL disables it
	CacheTTL  time.Duration
	CacheSize int

	// Backend selection
	DataBackend string

	// Local CSV directory, also the source of the import command
	DataDir string

	// Google Cloud Storage
	GCSBucket             string
	GCSPrefix             string
	GoogleCredentialsFile string

	// Google Sheets, one tab per table
	GoogleSpreadsheetID string

	// Database
	SQLiteDBPath string

	// Analytics and presentation
	PortfolioValuation string
	Currency           string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8000"),
		RateLimitRPM:    getEnvInt("RATE_LIMIT_RPM", defaultRateLimitRPM),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
		TrustedProxies:  getEnvList("TRUSTED_PROXIES"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		CacheTTL:        getEnvDuration("RESPONSE_CACHE_TTL", 5*time.Minute),
		CacheSize:       getEnvInt("RESPONSE_CACHE_SIZE", 256),

		DataBackend: getEnv("DATA_BACKEND", "dir"),
		DataDir:     getEnv("DATA_DIR", "./data"),

		GCSBucket:             getEnv("GCS_BUCKET", ""),
		GCSPrefix:             getEnv("GCS_PREFIX", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS_FILE", ""),
		GoogleSpreadsheetID:   strings.TrimSpace(getEnv("GOOGLE_SPREADSHEET_ID", "")),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/findash.db"),

		PortfolioValuation: getEnv("PORTFOLIO_VALUATION", "sum_all"),
		Currency:           strings.ToUpper(getEnv("CURRENCY", "COP")),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(DataBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, DataBackends))
	}

	switch c.DataBackend {
	case "dir":
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using dir backend")
		} else if info, err := os.Stat(c.DataDir); err != nil || !info.IsDir() {
			errors = append(errors, fmt.Sprintf("data directory '%s' does not exist", c.DataDir))
		}
	case "gcs":
		if c.GCSBucket == "" {
			errors = append(errors, "GCS bucket is required when using gcs backend")
		}
		if c.GoogleCredentialsFile != "" {
			if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
			}
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "GOOGLE_SPREADSHEET_ID is required when using sheets backend")
		}
		if c.GoogleCredentialsFile != "" {
			if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
			}
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	}

	if !slices.Contains(ValuationModes, c.PortfolioValuation) {
		errors = append(errors, fmt.Sprintf("invalid portfolio valuation '%s': must be one of %v", c.PortfolioValuation, ValuationModes))
	}

	if money.GetCurrency(c.Currency) == nil {
		errors = append(errors, fmt.Sprintf("unknown currency code '%s'", c.Currency))
	}

	if c.RateLimitRPM < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitRPM))
	}

	if c.ShutdownTimeout < time.Second || c.ShutdownTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be between 1s and 5m", c.ShutdownTimeout))
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid response cache TTL %v: must not be negative", c.CacheTTL))
	}
	if c.CacheTTL > 0 && c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid response cache size %d: must be at least 1", c.CacheSize))
	}

	if !slices.Contains(LogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, LogLevels))
	}
	if !slices.Contains(LogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, LogFormats))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
