// Package database manages the SQLite connection for Slotbook.
//
// It wraps database/sql with connection pragmas tuned for SQLite (WAL mode,
// busy timeout, single writer), embedded SQL migrations applied in version
// order, and a health check used at startup.
//
// Migrations live in the top-level migrations/ directory and are embedded
// into the binary via go:embed, so the schema travels with the executable.
package database
