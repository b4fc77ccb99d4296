// Package provider declares the plugin contracts the dispatch engine selects
// from: metadata providers, image providers, metadata savers, and metadata
// services.
//
// Capabilities are fixed when a plugin is registered. A Registration records
// whether the plugin is local or remote, whether it serves images or
// metadata, and its optional numeric priority, so the engine never inspects
// plugin types while dispatching.
package provider
