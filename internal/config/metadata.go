package config

import (
	"slices"
	"strings"
)

// MetadataOptions holds provider ordering and disable lists for one item type.
// Name comparisons are case-insensitive.
type MetadataOptions struct {
	ItemType                 string   `toml:"item_type" json:"item_type"`
	ImageFetcherOrder        []string `toml:"image_fetcher_order" json:"image_fetcher_order,omitempty"`
	DisabledImageFetchers    []string `toml:"disabled_image_fetchers" json:"disabled_image_fetchers,omitempty"`
	LocalMetadataReaderOrder []string `toml:"local_metadata_reader_order" json:"local_metadata_reader_order,omitempty"`
	MetadataFetcherOrder     []string `toml:"metadata_fetcher_order" json:"metadata_fetcher_order,omitempty"`
	DisabledMetadataFetchers []string `toml:"disabled_metadata_fetchers" json:"disabled_metadata_fetchers,omitempty"`
	DisabledMetadataSavers   []string `toml:"disabled_metadata_savers" json:"disabled_metadata_savers,omitempty"`
}

// DefaultMetadataOptions returns the options used for item types without a
// configured entry: no ordering preferences and nothing disabled.
func DefaultMetadataOptions(itemType string) MetadataOptions {
	return MetadataOptions{ItemType: itemType}
}

// ImageFetcherIndex returns the position of name in ImageFetcherOrder or -1.
func (o MetadataOptions) ImageFetcherIndex(name string) int {
	return indexFold(o.ImageFetcherOrder, name)
}

// MetadataFetcherIndex returns the position of name in MetadataFetcherOrder or -1.
func (o MetadataOptions) MetadataFetcherIndex(name string) int {
	return indexFold(o.MetadataFetcherOrder, name)
}

func (o MetadataOptions) ImageFetcherDisabled(name string) bool {
	return indexFold(o.DisabledImageFetchers, name) >= 0
}

func (o MetadataOptions) MetadataFetcherDisabled(name string) bool {
	return indexFold(o.DisabledMetadataFetchers, name) >= 0
}

func (o MetadataOptions) SaverDisabled(name string) bool {
	return indexFold(o.DisabledMetadataSavers, name) >= 0
}

// Clone returns a deep copy so snapshot consumers cannot mutate config state.
func (o MetadataOptions) Clone() MetadataOptions {
	return MetadataOptions{
		ItemType:                 o.ItemType,
		ImageFetcherOrder:        slices.Clone(o.ImageFetcherOrder),
		DisabledImageFetchers:    slices.Clone(o.DisabledImageFetchers),
		LocalMetadataReaderOrder: slices.Clone(o.LocalMetadataReaderOrder),
		MetadataFetcherOrder:     slices.Clone(o.MetadataFetcherOrder),
		DisabledMetadataFetchers: slices.Clone(o.DisabledMetadataFetchers),
		DisabledMetadataSavers:   slices.Clone(o.DisabledMetadataSavers),
	}
}

func indexFold(names []string, name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1
	}
	for i, candidate := range names {
		if strings.EqualFold(candidate, name) {
			return i
		}
	}
	return -1
}

// Snapshot is the read-only view of provider configuration handed to the
// dispatch engine for a single operation.
type Snapshot struct {
	EnableInternetProviders   bool
	PreferredMetadataLanguage string
	MetadataOptions           []MetadataOptions
}

// CurrentOptions returns a fresh Snapshot of the provider configuration.
func (c *Config) CurrentOptions() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	opts := make([]MetadataOptions, 0, len(c.MetadataOptions))
	for _, o := range c.MetadataOptions {
		opts = append(opts, o.Clone())
	}
	return Snapshot{
		EnableInternetProviders:   c.Providers.EnableInternetProviders,
		PreferredMetadataLanguage: c.Providers.PreferredMetadataLanguage,
		MetadataOptions:           opts,
	}
}

// Lookup returns the configured options for itemType and whether an entry
// existed.
func (s Snapshot) Lookup(itemType string) (MetadataOptions, bool) {
	for _, o := range s.MetadataOptions {
		if strings.EqualFold(o.ItemType, itemType) {
			return o, true
		}
	}
	return MetadataOptions{}, false
}
