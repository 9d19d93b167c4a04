// Package config loads and validates Slotbook configuration.
//
// Configuration is layered: hardcoded defaults, then a YAML file, then
// SLOTBOOK_* environment variable overrides. Validate() rejects configs
// that would start an insecure or broken server (missing JWT secret,
// out-of-range ports).
package config
