package dispatch

import (
	"context"
	"slices"
	"sort"
	"strings"

	"curator/internal/media"
	"curator/internal/provider"
)

// PluginType labels a plugin's role in a summary.
type PluginType string

const (
	PluginLocalMetadataProvider PluginType = "LocalMetadataProvider"
	PluginMetadataFetcher       PluginType = "MetadataFetcher"
	PluginMetadataSaver         PluginType = "MetadataSaver"
	PluginLocalImageProvider    PluginType = "LocalImageProvider"
	PluginImageFetcher          PluginType = "ImageFetcher"
)

// MetadataPlugin is one entry in a plugin summary.
type MetadataPlugin struct {
	Name string     `json:"name"`
	Type PluginType `json:"type"`
}

// MetadataPluginSummary reports which plugins would apply to an item type.
type MetadataPluginSummary struct {
	ItemType            media.ItemType    `json:"item_type"`
	Plugins             []MetadataPlugin  `json:"plugins"`
	SupportedImageTypes []media.ImageType `json:"supported_image_types"`
}

// GetAllMetadataPlugins builds a summary for each supported item type using a
// placeholder item. Disabled plugins are included. Only plugin predicates
// run; no provider fetches or saves happen.
func (m *Manager) GetAllMetadataPlugins(ctx context.Context) []MetadataPluginSummary {
	summaries := make([]MetadataPluginSummary, 0, len(media.SummaryTypes))
	for _, t := range media.SummaryTypes {
		summaries = append(summaries, m.pluginSummary(ctx, t))
	}
	return summaries
}

func (m *Manager) pluginSummary(ctx context.Context, t media.ItemType) MetadataPluginSummary {
	item := media.Placeholder(t)
	sel := m.newSelection(item, true)
	summary := MetadataPluginSummary{ItemType: t}

	metadataProviders := m.metadataProvidersFor(ctx, item, sel)
	for _, reg := range metadataProviders {
		if reg.Caps.Has(provider.Local) {
			summary.Plugins = append(summary.Plugins, MetadataPlugin{Name: reg.Name(), Type: PluginLocalMetadataProvider})
		}
	}
	for _, reg := range metadataProviders {
		if reg.Caps.Has(provider.Remote) {
			summary.Plugins = append(summary.Plugins, MetadataPlugin{Name: reg.Name(), Type: PluginMetadataFetcher})
		}
	}

	var savers []string
	for _, saver := range m.savers {
		if m.isSaverEnabled(ctx, saver, item, media.UpdateMetadataEdit, sel.options, true) {
			savers = append(savers, saver.Name())
		}
	}
	sort.SliceStable(savers, func(i, j int) bool {
		return strings.ToLower(savers[i]) < strings.ToLower(savers[j])
	})
	for _, name := range savers {
		summary.Plugins = append(summary.Plugins, MetadataPlugin{Name: name, Type: PluginMetadataSaver})
	}

	imageProviders := m.imageProvidersFor(ctx, item, sel)
	for _, reg := range imageProviders {
		if reg.Caps.Has(provider.Local) {
			summary.Plugins = append(summary.Plugins, MetadataPlugin{Name: reg.Name(), Type: PluginLocalImageProvider})
		}
	}
	for _, reg := range imageProviders {
		if reg.Caps.Has(provider.Local) {
			continue
		}
		summary.Plugins = append(summary.Plugins, MetadataPlugin{Name: reg.Name(), Type: PluginImageFetcher})
		for _, imageType := range m.supportedImages(ctx, reg, item) {
			if !slices.Contains(summary.SupportedImageTypes, imageType) {
				summary.SupportedImageTypes = append(summary.SupportedImageTypes, imageType)
			}
		}
	}
	return summary
}
