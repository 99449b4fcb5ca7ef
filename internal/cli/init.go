// Package cli provides common CLI initialization utilities shared by
// cmd/budget and cmd/budget-tui.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budget/internal/amqp"
	"budget/internal/config"
	"budget/internal/coordinator"
	"budget/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger writing to w and installs it as the
// slog default.
func SetupLogger(w io.Writer, level string) *log.Logger {
	lvl, _ := log.ParseLevel(level)
	logger := log.NewWriter(w, lvl, log.ComponentApp)
	log.SetDefault(logger)
	return logger
}

// SetupFileLogger logs to path, or discards everything when path is empty.
// The returned func closes the file.
func SetupFileLogger(path, level string) (*log.Logger, func() error, error) {
	if path == "" {
		return log.Discard(), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return SetupLogger(f, level), f.Close, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// ConnectEvents returns the coordinator options that publish entry events
// when AMQP is configured, plus a closer. With events disabled it returns no
// options and a no-op closer.
func ConnectEvents(ctx context.Context, cfg *config.Config, logger *log.Logger) ([]coordinator.Option, func() error, error) {
	noop := func() error { return nil }
	if !cfg.EventsEnabled() {
		logger.Info("Entry events disabled", "reason", "AMQP_URL not set")
		return nil, noop, nil
	}

	pub, err := amqp.NewPublisher(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, cfg.AMQPConnectAttempts, logger)
	if err != nil {
		return nil, noop, fmt.Errorf("connect to AMQP broker: %w", err)
	}
	logger.Info("Entry events enabled",
		"exchange", cfg.AMQPExchange,
		"routing_key", cfg.AMQPRoutingKey)
	return []coordinator.Option{coordinator.WithNotifier(pub)}, pub.Close, nil
}
