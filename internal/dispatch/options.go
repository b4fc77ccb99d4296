package dispatch

import (
	"curator/internal/config"
	"curator/internal/media"
)

// GetMetadataOptions returns the options configured for the item's type.
// Subordinate types resolve to their parent category. Unconfigured types get
// default options.
func (m *Manager) GetMetadataOptions(item media.Item) config.MetadataOptions {
	return resolveOptions(m.config.CurrentOptions(), item)
}

func resolveOptions(snapshot config.Snapshot, item media.Item) config.MetadataOptions {
	if item == nil {
		return config.DefaultMetadataOptions("")
	}
	return optionsForType(snapshot, item.Type())
}

func optionsForType(snapshot config.Snapshot, t media.ItemType) config.MetadataOptions {
	name := string(t.OptionsType())
	if opts, ok := snapshot.Lookup(name); ok {
		return opts
	}
	return config.DefaultMetadataOptions(name)
}
