// Package logging provides structured logging for Slotbook.
//
// It wraps log/slog with configuration-driven formatting (JSON or text),
// level filtering, and default service/version attributes on every record.
package logging
