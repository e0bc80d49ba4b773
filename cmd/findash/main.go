package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/shopspring/decimal"

	"findash/internal/cli"
	apphttp "findash/internal/http"
	"findash/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, nil)

	// Amounts go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	data, err := cli.LoadEngine(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to load data", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer data.Close()

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Engine:          data.Engine,
		Logger:          logger,
		Source:          data.Source,
		RateLimitRPM:    cfg.RateLimitRPM,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		TrustedProxies:  cfg.TrustedProxies,
		CacheTTL:        cfg.CacheTTL,
		CacheSize:       cfg.CacheSize,
	})
	if err != nil {
		logger.Error("Failed to configure server", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting findash server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		log.FieldSource, data.Source,
		"valuation", data.Engine.Valuation())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		data.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
