package media

import (
	"fmt"
	"strings"
)

// ImageType identifies the role of an image.
type ImageType string

const (
	ImagePrimary  ImageType = "Primary"
	ImageArt      ImageType = "Art"
	ImageBackdrop ImageType = "Backdrop"
	ImageBanner   ImageType = "Banner"
	ImageLogo     ImageType = "Logo"
	ImageThumb    ImageType = "Thumb"
	ImageDisc     ImageType = "Disc"
	ImageBox      ImageType = "Box"
	ImageMenu     ImageType = "Menu"
	ImageChapter  ImageType = "Chapter"
)

var allImageTypes = []ImageType{
	ImagePrimary, ImageArt, ImageBackdrop, ImageBanner, ImageLogo,
	ImageThumb, ImageDisc, ImageBox, ImageMenu, ImageChapter,
}

func (t ImageType) String() string {
	return string(t)
}

// ParseImageType resolves a case-insensitive image type name.
func ParseImageType(value string) (ImageType, error) {
	value = strings.TrimSpace(value)
	for _, t := range allImageTypes {
		if strings.EqualFold(string(t), value) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown image type %q", value)
}

// RemoteImageInfo describes an image discovered by a remote provider.
type RemoteImageInfo struct {
	ProviderName    string    `json:"provider_name"`
	URL             string    `json:"url"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	Type            ImageType `json:"type"`
	Language        string    `json:"language,omitempty"`
	Width           int       `json:"width,omitempty"`
	Height          int       `json:"height,omitempty"`
	CommunityRating float64   `json:"community_rating,omitempty"`
	VoteCount       int       `json:"vote_count,omitempty"`
}

// LocalImageInfo describes an image file found beside an item.
type LocalImageInfo struct {
	Path string    `json:"path"`
	Type ImageType `json:"type"`
}

// ImageProviderInfo reports a remote image provider and the image types it
// can supply for an item.
type ImageProviderInfo struct {
	Name            string      `json:"name"`
	SupportedImages []ImageType `json:"supported_images"`
}

// UpdateKind flags why an item is being saved. Values combine as a bit set.
type UpdateKind int

const (
	UpdateNone             UpdateKind = 0
	UpdateFileSystemStub   UpdateKind = 1
	UpdateMetadataImport   UpdateKind = 2
	UpdateMetadataDownload UpdateKind = 4
	UpdateImageUpdate      UpdateKind = 8
	UpdateMetadataEdit     UpdateKind = 16
)

// Has reports whether all bits of flag are set.
func (k UpdateKind) Has(flag UpdateKind) bool {
	return flag != 0 && k&flag == flag
}

// ParseUpdateKind resolves a case-insensitive update kind name.
func ParseUpdateKind(value string) (UpdateKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "edit", "metadata_edit":
		return UpdateMetadataEdit, nil
	case "import", "metadata_import":
		return UpdateMetadataImport, nil
	case "download", "metadata_download":
		return UpdateMetadataDownload, nil
	case "image", "image_update":
		return UpdateImageUpdate, nil
	default:
		return UpdateNone, fmt.Errorf("unknown update kind %q", value)
	}
}
