// Package dispatch selects, orders, and invokes metadata plugins for library
// items.
//
// Manager is the entry point. For each request it takes a fresh snapshot of
// the metadata options, narrows the registered providers to those eligible
// for the item, sorts them (configured name order for remote providers, then
// declared priority, then registration order), and invokes them. Remote image
// lookups fan out concurrently and merge in provider order. Metadata saves run
// savers one at a time and guard file-backed writes with a per-path lock so
// concurrent saves of the same file never interleave.
//
// Plugin failures are isolated: an error or panic from one provider or saver
// is logged with its name and the item type and never aborts the batch.
package dispatch
