// Package slot implements the appointment slot domain for Slotbook.
//
// A Slot is a flat (date, time) record with an optional booking attached.
// The package provides:
//   - Repository: persistence interface with a SQLite implementation,
//     including the store-level UNIQUE (date, time) guarantee
//   - Service: business rules (duplicate rejection, one-way booking
//     transition, delete semantics) and change-notification dispatch
//
// Notifications are advisory. The Service tells its Notifier that something
// changed after the store operation commits, in a separate goroutine, so
// delivery can never delay or fail the triggering request.
//
// # Thread Safety
//
// SQLiteRepository and Service are safe for concurrent use from multiple
// goroutines.
package slot
