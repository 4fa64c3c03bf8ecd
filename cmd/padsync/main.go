// Padsync - gamepad slot management client agent
//
// This is the main entry point for the Padsync client agent. It maintains
// a live mirror of the companion service's state: device order, profiles,
// game rules, settings, forwarding status. User interfaces read the mirror
// and issue operations against it; the agent keeps it converged with the
// backend through request/response calls and push events.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/padsync/padsync/internal/engine"
	"github.com/padsync/padsync/internal/infrastructure/config"
	"github.com/padsync/padsync/internal/infrastructure/logging"
	"github.com/padsync/padsync/internal/remote"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Padsync",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to the companion service
	client, err := remote.Dial(ctx, cfg.Server, cfg.WebSocket)
	if err != nil {
		return fmt.Errorf("connecting to backend: %w", err)
	}
	defer func() {
		log.Info("closing backend session")
		if closeErr := client.Close(); closeErr != nil {
			log.Error("error closing session", "error", closeErr)
		}
	}()
	client.SetLogger(log)
	log.Info("backend connected", "url", cfg.Server.URL)

	// Build the state engine on top of the session
	eng := engine.New(client, client)
	eng.SetLogger(log)
	defer eng.Close()

	unsubscribe := eng.Subscribe(func() {
		log.Debug("state updated", "devices", len(eng.Devices()))
	})
	defer unsubscribe()

	// Populate the initial snapshot
	if err := eng.Refresh(ctx); err != nil {
		return fmt.Errorf("initial refresh: %w", err)
	}
	log.Info("initial state loaded",
		"devices", len(eng.Devices()),
		"profiles", len(eng.Profiles()),
		"forwarding", eng.ForwardingActive(),
	)

	// Periodic re-fetch reconciles drift the push events cannot cover
	// (backend restart, missed frames).
	if interval := cfg.Refresh.GetInterval(); interval > 0 {
		go refreshLoop(ctx, eng, interval, log)
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("Padsync stopped")
	return nil
}

// refreshLoop re-fetches the full snapshot on a fixed interval until the
// context is cancelled.
func refreshLoop(ctx context.Context, eng *engine.Engine, interval time.Duration, log *logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := eng.Refresh(ctx); err != nil {
				log.Warn("periodic refresh failed", "error", err)
			}
		}
	}
}

// getConfigPath returns the configuration file path.
// Uses PADSYNC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PADSYNC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
