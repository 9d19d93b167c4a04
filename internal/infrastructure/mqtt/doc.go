// Package mqtt publishes Slotbook change events to an MQTT broker.
//
// This is an optional secondary channel alongside the WebSocket hub: when
// enabled, every refresh and new_booking event is also published to the
// configured events topic so external integrations (reception displays,
// signage, automations) can react without holding a WebSocket connection.
//
// Like the WebSocket channel, delivery is best-effort and advisory.
// Consumers are expected to fetch authoritative state from the HTTP API.
//
// The client publishes retained online/offline status to
// slotbook/system/status, with a Last Will so a crash is distinguishable
// from a graceful shutdown.
package mqtt
