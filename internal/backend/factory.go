package backend

import (
	"context"
	"fmt"

	"findash/internal/loader"
	"findash/internal/log"
	"findash/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case DirBackend:
		return f.createDirBackend(config)
	case GCSBackend:
		return f.createGCSBackend(ctx, config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createDirBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	l := loader.New(loader.NewDirSource(dataDir), f.logger)
	f.logger.Info("Initialized directory backend", "data_directory", dataDir)

	return &BackendResult{Backend: l}, nil
}

func (f *DefaultFactory) createGCSBackend(ctx context.Context, config Config) (*BackendResult, error) {
	src, err := loader.NewGCSSource(ctx, config.GCSBucket, config.GCSPrefix, config.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
	}

	f.logger.Info("Initialized GCS backend", "bucket", config.GCSBucket, "prefix", config.GCSPrefix)

	return &BackendResult{
		Backend: loader.New(src, f.logger),
		Cleanup: src.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	src, err := loader.NewSheetsSource(ctx, config.SpreadsheetID, config.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.SpreadsheetID)

	return &BackendResult{Backend: loader.New(src, f.logger)}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: repo,
		Cleanup: repo.Close,
	}, nil
}
