package provider

import (
	"context"

	"curator/internal/media"
)

// RefreshOptions controls a metadata refresh.
type RefreshOptions struct {
	// ReplaceAllMetadata discards existing fields before merging provider results.
	ReplaceAllMetadata bool
	// SkipImages leaves artwork untouched.
	SkipImages bool
	// ReplaceAllImages downloads artwork even for image types already present.
	ReplaceAllImages bool
	// Language overrides the item's preferred metadata language.
	Language string
}

// MetadataService performs full metadata refreshes for the items it accepts.
// The engine tries services in ascending Order and uses the first that
// accepts the item.
type MetadataService interface {
	Name() string
	Order() int
	CanRefresh(item media.Item) bool
	RefreshMetadata(ctx context.Context, item media.Item, opts RefreshOptions) error
}
