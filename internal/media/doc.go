// Package media defines the library item model the dispatch engine works
// against: item types, the Item interface with the handful of properties
// provider selection depends on, image types, and remote image descriptors.
//
// The full entity hierarchy lives elsewhere; BaseItem is a minimal concrete
// Item used by the CLI, plugin introspection, and tests.
package media
