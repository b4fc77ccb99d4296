// Package refresh implements the bundled metadata service.
//
// A refresh reads local metadata, fills remaining fields from remote
// fetchers in dispatch order, downloads artwork for image types the item is
// missing, and finally asks the engine to run the metadata savers. Provider
// failures are logged and skipped; only cancellation aborts a refresh.
package refresh
