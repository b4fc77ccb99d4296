// Package main hosts the curator CLI entrypoint and command graph.
//
// Every command runs against an in-process dispatch engine assembled from the
// configuration file: the bundled local image provider, one manifest image
// provider per configured source, the sidecar reader and saver, and the
// refresh service. Commands report plugin summaries and metadata options,
// list remote images, and drive refreshes and saves for a single item path.
//
// Log output goes to stderr and the configured log directory so stdout stays
// usable for tables and JSON.
package main
