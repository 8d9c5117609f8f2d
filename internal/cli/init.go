// Package cli provides common process initialization utilities for the
// commands under cmd/.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finrec/internal/budget"
	"finrec/internal/config"
	"finrec/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from config and sets it as the
// default slog logger. An unknown level falls back to info.
func SetupLogger(cfg *config.Config) *log.Logger {
	level, _ := log.ParseLevel(cfg.LogLevel)

	lc := log.DefaultConfig()
	lc.Level = level
	lc.Format = cfg.LogFormat

	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		// The logger depends on config, so report with the bootstrap default.
		log.New(log.DefaultConfig()).WithComponent(log.ComponentConfig).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// LoadBudgetLimits returns the limits table named by config, or the built-in
// defaults when no file is configured. Exits the process on a bad file.
func LoadBudgetLimits(logger *log.Logger, cfg *config.Config) *budget.Limits {
	logger = logger.WithComponent(log.ComponentBudget)
	if cfg.BudgetLimitsFile == "" {
		logger.Info("Using default budget limits")
		return budget.DefaultLimits()
	}

	limits, err := budget.Load(cfg.BudgetLimitsFile)
	if err != nil {
		logger.Error("Failed to load budget limits", log.FieldError, err, "path", cfg.BudgetLimitsFile)
		os.Exit(1)
	}
	logger.Info("Loaded budget limits", "path", cfg.BudgetLimitsFile)
	return limits
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
