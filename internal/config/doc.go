// Package config loads, normalizes, and validates curator configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CURATOR_ENABLE_INTERNET_PROVIDERS. The Config type centralizes the global
// internet-provider toggle, per item type metadata options (provider order
// and disable lists), fetch limits, and locking behaviour.
//
// The dispatch engine never reads a Config directly: it asks for a Snapshot
// through CurrentOptions on every operation so each request sees a consistent,
// read-only view of the options.
package config
