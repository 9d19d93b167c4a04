// Slotbook is an appointment-slot booking service.
//
// It exposes a small REST API for managing and booking time slots, backed
// by SQLite, and pushes change events to WebSocket subscribers so booking
// frontends can refresh without polling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/slotbook/internal/api"
	"github.com/nerrad567/slotbook/internal/audit"
	"github.com/nerrad567/slotbook/internal/infrastructure/config"
	"github.com/nerrad567/slotbook/internal/infrastructure/database"
	"github.com/nerrad567/slotbook/internal/infrastructure/logging"
	"github.com/nerrad567/slotbook/internal/infrastructure/mqtt"
	"github.com/nerrad567/slotbook/internal/slot"

	// Registers the embedded schema migrations with the database package.
	_ "github.com/nerrad567/slotbook/migrations"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "slotbook: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configPath := os.Getenv("SLOTBOOK_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Logging, version)
	logger.Info("starting slotbook", "version", version, "config", configPath)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("database ready", "path", db.Path())

	repo := slot.NewSQLiteRepository(db.DB)
	slots := slot.NewService(repo)
	slots.SetLogger(logger.With("component", "slots"))

	trail := audit.NewSQLiteRepository(db.DB)

	// Optional MQTT mirror: when enabled, every WebSocket event is also
	// published to the configured topic for signage and other non-browser
	// consumers.
	var publisher api.EventPublisher
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT broker: %w", err)
		}
		defer mqttClient.Close()

		mqttClient.SetOnConnect(func() {
			logger.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			logger.Warn("MQTT disconnected", "error", err)
		})

		publisher = mqttClient
		logger.Info("MQTT event mirror enabled", "topic", cfg.MQTT.Topic)
	}

	if err := healthCheck(ctx, db, mqttClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	logger.Info("all health checks passed")

	server := api.New(api.Deps{
		Config:    cfg.API,
		WebSocket: cfg.WebSocket,
		Security:  cfg.Security,
		Logger:    logger.With("component", "api"),
		Slots:     slots,
		Audit:     trail,
		Publisher: publisher,
		Version:   version,
	})
	slots.SetNotifier(server.Hub())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("API server: %w", err)
		}
		return nil
	}

	if err := server.Close(); err != nil {
		logger.Warn("error during server shutdown", "error", err)
	}

	// Give deferred closes a moment before the process exits under a
	// supervisor that follows SIGTERM with SIGKILL.
	time.Sleep(100 * time.Millisecond)

	logger.Info("slotbook stopped")
	return nil
}

// healthCheck verifies infrastructure connections before the API starts
// serving. mqttClient is nil when the event mirror is disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	return nil
}
