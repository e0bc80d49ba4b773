// Package backend selects where the six tables are loaded from.
package backend

import (
	"context"

	"findash/internal/dataset"
)

// Backend produces the six input tables. String names the source in logs.
type Backend interface {
	Load(ctx context.Context) (dataset.Tables, error)
	String() string
}

type CleanupFunc func() error

// BackendResult pairs a backend with the function releasing its clients.
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Close runs Cleanup when there is one. It is safe on a nil result.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error)
}

// Config carries the settings of every backend; only those of Type are read.
type Config struct {
	Type BackendType

	DataDirectory string // dir

	GCSBucket string // gcs
	GCSPrefix string
	// GoogleCredentialsFile is used by gcs and sheets. Empty means
	// application default credentials.
	GoogleCredentialsFile string

	SpreadsheetID string // sheets

	SQLiteDBPath string // sqlite
}

type BackendType string

const (
	DirBackend    BackendType = "dir"
	GCSBackend    BackendType = "gcs"
	SheetsBackend BackendType = "sheets"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	for _, t := range GetBackendTypes() {
		if bt == t {
			return true
		}
	}
	return false
}
