// Package cli provides the process bootstrap shared by cmd/findash and
// cmd/findash-report, and the report subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"findash/internal/analytics"
	"findash/internal/backend"
	"findash/internal/config"
	"findash/internal/dataset"
	"findash/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default. A nil out writes to stdout.
func SetupLogger(cfg *config.Config, out io.Writer) *log.Logger {
	lc := log.DefaultConfig()
	if out != nil {
		lc.Output = out
	}
	if cfg != nil {
		lc.Level = log.ParseLevel(cfg.LogLevel)
		lc.Format = cfg.LogFormat
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	return cfg
}

// Data is a loaded engine together with the backend that produced it.
type Data struct {
	Engine *analytics.Engine
	Source string
	close  func() error
}

// Close releases the backend.
func (d *Data) Close() error {
	if d == nil || d.close == nil {
		return nil
	}
	return d.close()
}

// LoadEngine opens the configured backend, reads the six tables and builds
// the analytics engine over them.
func LoadEngine(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Data, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bc.Type, err)
	}

	start := time.Now()
	tables, err := res.Backend.Load(ctx)
	if err != nil {
		res.Close()
		return nil, fmt.Errorf("load tables from %s: %w", res.Backend, err)
	}
	snapshot := dataset.New(tables)

	logger.InfoContext(ctx, "Data loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldBackend, bc.Type.String(),
		log.FieldSource, res.Backend.String(),
		log.FieldDuration, time.Since(start).Milliseconds())

	engine := analytics.New(snapshot, analytics.WithValuation(analytics.ValuationMode(cfg.PortfolioValuation)))
	return &Data{Engine: engine, Source: res.Backend.String(), close: res.Close}, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that is closed once cleanup has returned or timeout
// has elapsed, whichever comes first.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown, "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup(shutdownCtx)
			}
			close(finished)
		}()

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached", log.FieldOperation, log.OpShutdown)
		case <-finished:
			logger.Info("Shutdown complete", log.FieldOperation, log.OpShutdown)
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
