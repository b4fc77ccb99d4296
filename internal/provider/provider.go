package provider

import (
	"context"

	"curator/internal/media"
)

// Provider is the common surface of every plugin.
type Provider interface {
	Name() string
}

// Ordered is implemented by plugins that declare a numeric priority. Lower
// values run first; plugins without one use zero.
type Ordered interface {
	Order() int
}

// MetadataProvider supplies descriptive fields for some item types.
type MetadataProvider interface {
	Provider
	SupportsType(t media.ItemType) bool
}

// LocalMetadataProvider reads metadata stored alongside the item.
type LocalMetadataProvider interface {
	MetadataProvider
	GetMetadata(ctx context.Context, item media.Item) (media.Metadata, bool, error)
}

// RemoteMetadataProvider looks metadata up from an external service.
type RemoteMetadataProvider interface {
	MetadataProvider
	FetchMetadata(ctx context.Context, item media.Item, language string) (media.Metadata, bool, error)
}

// ImageProvider supplies artwork for items it supports.
type ImageProvider interface {
	Provider
	Supports(item media.Item) (bool, error)
}

// LocalImageProvider lists artwork already present next to the item.
type LocalImageProvider interface {
	ImageProvider
	GetImages(item media.Item) ([]media.LocalImageInfo, error)
}

// ImageKindReporter reports which image types a provider can produce.
type ImageKindReporter interface {
	SupportedImages(item media.Item) []media.ImageType
}

// RemoteImageProvider enumerates downloadable artwork.
type RemoteImageProvider interface {
	ImageProvider
	ImageKindReporter
	GetImages(ctx context.Context, item media.Item) ([]media.RemoteImageInfo, error)
}

// DynamicImageProvider renders artwork on demand (for example from video
// frames) and is neither local nor remote.
type DynamicImageProvider interface {
	ImageProvider
	ImageKindReporter
}
