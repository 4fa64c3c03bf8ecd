// Package database provides SQLite database connectivity for the Padsync
// simulator.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Forward-only schema migrations embedded into the binary
//   - Connection lifecycle and health checks
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Performance Characteristics:
//   - WAL mode allows concurrent reads during writes
//   - Busy timeout prevents lock contention errors
//   - A single connection serialises writes (SQLite single writer)
//
// Usage:
//
//	db, err := database.Open(database.Config{
//	    Path:        cfg.Simulator.Database.Path,
//	    WALMode:     cfg.Simulator.Database.WALMode,
//	    BusyTimeout: cfg.Simulator.Database.BusyTimeout,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	// Run migrations
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files live in the migrations package at repository root and
// are registered via its init function. Filenames follow
// YYYYMMDD_HHMMSS_description.up.sql and apply in version order exactly
// once per database; applied versions are tracked in schema_migrations.
package database
