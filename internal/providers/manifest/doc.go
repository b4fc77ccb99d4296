// Package manifest is a remote image provider backed by a JSON manifest
// endpoint.
//
// Each configured source expands a URL template with the item's type, name,
// and production year, fetches it through the shared fetcher, and decodes a
// document of the form:
//
//	{"images": [{"url": "...", "type": "Primary", "language": "en"}]}
//
// Entries with unknown or unsupported image types are dropped.
package manifest
