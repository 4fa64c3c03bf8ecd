// Padsync simulator - development stand-in for the companion service
//
// Serves the Padsync wire protocol on a loopback listener with simulated
// hardware and real SQLite persistence, so the client agent can be
// developed and tested without the Windows driver stack.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/padsync/padsync/migrations"

	"github.com/padsync/padsync/internal/infrastructure/config"
	"github.com/padsync/padsync/internal/infrastructure/database"
	"github.com/padsync/padsync/internal/infrastructure/logging"
	"github.com/padsync/padsync/internal/simulator"
)

// Version information - set at build time via ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Padsync simulator",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Simulator.Database.Path,
		WALMode:     cfg.Simulator.Database.WALMode,
		BusyTimeout: cfg.Simulator.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Simulator.Database.Path)

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete")

	// Start the simulator
	sim, err := simulator.New(cfg.Simulator, cfg.WebSocket, simulator.NewSQLiteRepository(db.DB), log)
	if err != nil {
		return fmt.Errorf("creating simulator: %w", err)
	}
	if err := sim.Start(ctx); err != nil {
		return fmt.Errorf("starting simulator: %w", err)
	}
	defer func() {
		if closeErr := sim.Close(); closeErr != nil {
			log.Error("error closing simulator", "error", closeErr)
		}
	}()
	log.Info("simulator ready",
		"address", fmt.Sprintf("%s:%d", cfg.Simulator.Host, cfg.Simulator.Port),
		"devices", len(cfg.Simulator.Devices),
	)

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("Padsync simulator stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses PADSYNC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PADSYNC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
