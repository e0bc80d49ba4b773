package backend

import (
	"errors"
	"fmt"

	"findash/internal/config"
)

// FromAppConfig picks the backend settings out of the application config.
func FromAppConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, errors.New("app config is nil")
	}
	bt := BackendType(cfg.DataBackend)
	if !bt.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", cfg.DataBackend)
	}
	return Config{
		Type:                  bt,
		DataDirectory:         cfg.DataDir,
		GCSBucket:             cfg.GCSBucket,
		GCSPrefix:             cfg.GCSPrefix,
		GoogleCredentialsFile: cfg.GoogleCredentialsFile,
		SpreadsheetID:         cfg.GoogleSpreadsheetID,
		SQLiteDBPath:          cfg.SQLiteDBPath,
	}, nil
}

// required names the setting each backend cannot run without.
var required = map[BackendType]struct {
	field string
	value func(Config) string
}{
	GCSBackend:    {"GCS bucket", func(c Config) string { return c.GCSBucket }},
	SheetsBackend: {"spreadsheet ID", func(c Config) string { return c.SpreadsheetID }},
	SQLiteBackend: {"SQLite database path", func(c Config) string { return c.SQLiteDBPath }},
}

// Validate checks the type and the setting it requires. The dir backend
// falls back to the default data directory.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if req, ok := required[c.Type]; ok && req.value(c) == "" {
		return fmt.Errorf("%s is required for %s backend", req.field, c.Type)
	}
	return nil
}

// GetBackendTypes lists the backends in the order config.DataBackends uses.
func GetBackendTypes() []BackendType {
	return []BackendType{DirBackend, GCSBackend, SheetsBackend, SQLiteBackend}
}

func GetBackendTypeStrings() []string {
	var out []string
	for _, t := range GetBackendTypes() {
		out = append(out, t.String())
	}
	return out
}
