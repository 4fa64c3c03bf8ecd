// Package logging provides structured logging for Padsync on top of
// log/slog.
//
// The Logger adds service and version default fields, level parsing from
// configuration, and JSON/text handler selection. Packages that need
// logging without depending on this package declare a minimal local Logger
// interface with a no-op default; *logging.Logger satisfies those
// interfaces directly.
package logging
