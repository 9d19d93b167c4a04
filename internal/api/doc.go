// Package api implements the HTTP REST API and WebSocket notification hub
// for Slotbook.
//
// This package provides:
//   - REST endpoints for slot create/list/delete/book and the login stub
//   - WebSocket hub broadcasting advisory change events to every viewer
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//   - TLS support for production deployments
//
// # Architecture
//
// The server sits between booking front-ends and the slot service. Mutations
// flow through the service into SQLite; after a mutation commits, the
// service fires a change event which the hub fans out to all connected
// WebSocket clients (and, when configured, mirrors onto an MQTT topic).
//
// # Notifications are advisory
//
// A broadcast tells viewers that state changed, not what it changed to.
// Delivery to each client is attempted independently and failures are
// swallowed; clients re-fetch the slot list for authoritative state.
//
// # Security
//
// The login endpoint is a development stub with hardcoded credentials that
// issues a signed JWT. It exists for contract compatibility and must be
// replaced before any production use.
package api
