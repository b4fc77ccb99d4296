// Package fetch downloads remote resources for image saving and remote
// providers.
//
// HTTPFetcher rate limits outgoing requests with x/time/rate, caps in-flight
// requests, and honors an optional caller-supplied pool so a batch of image
// downloads can share a tighter concurrency budget. Non-success responses map
// onto the services error markers.
package fetch
