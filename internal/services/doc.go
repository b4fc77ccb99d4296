// Package services defines shared utilities consumed by the dispatch engine,
// its default collaborators and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp item IDs, operation names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can tell
//     contract violations apart from missing handlers and plugin failures.
//
// Use these helpers when wiring new plugins or collaborators so operational
// behaviour (error classification, observability) stays uniform.
package services
