package localimages

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"curator/internal/media"
)

// Name is the provider's display name.
const Name = "Local Images"

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
}

// baseTypes maps file base names onto image types. Backdrops may carry a
// numeric suffix (backdrop1, fanart2).
var baseTypes = map[string]media.ImageType{
	"poster":    media.ImagePrimary,
	"folder":    media.ImagePrimary,
	"cover":     media.ImagePrimary,
	"backdrop":  media.ImageBackdrop,
	"fanart":    media.ImageBackdrop,
	"banner":    media.ImageBanner,
	"logo":      media.ImageLogo,
	"clearart":  media.ImageArt,
	"thumb":     media.ImageThumb,
	"landscape": media.ImageThumb,
	"disc":      media.ImageDisc,
	"box":       media.ImageBox,
	"menu":      media.ImageMenu,
}

// Provider reads artwork from the item's folder.
type Provider struct{}

// New constructs a Provider.
func New() *Provider { return &Provider{} }

func (p *Provider) Name() string { return Name }

// Supports accepts filesystem items with a path.
func (p *Provider) Supports(item media.Item) (bool, error) {
	if item == nil {
		return false, nil
	}
	return item.LocationType() == media.LocationFileSystem && media.ContainingFolder(item) != "", nil
}

// GetImages lists recognized image files in the item's folder, ordered by
// type and index. A missing folder yields no images.
func (p *Provider) GetImages(item media.Item) ([]media.LocalImageInfo, error) {
	dir := media.ContainingFolder(item)
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	type found struct {
		info  media.LocalImageInfo
		index int
	}
	var images []found
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		imageType, index, ok := classify(entry.Name())
		if !ok {
			continue
		}
		images = append(images, found{
			info:  media.LocalImageInfo{Path: filepath.Join(dir, entry.Name()), Type: imageType},
			index: index,
		})
	}
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].info.Type != images[j].info.Type {
			return images[i].info.Type < images[j].info.Type
		}
		if images[i].index != images[j].index {
			return images[i].index < images[j].index
		}
		return images[i].info.Path < images[j].info.Path
	})
	out := make([]media.LocalImageInfo, len(images))
	for i, image := range images {
		out[i] = image.info
	}
	return out, nil
}

// classify maps a file name onto an image type and index.
func classify(name string) (media.ImageType, int, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if !imageExtensions[ext] {
		return "", 0, false
	}
	base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	if imageType, ok := baseTypes[base]; ok {
		return imageType, 0, true
	}
	trimmed := strings.TrimRight(base, "0123456789")
	if trimmed == base {
		return "", 0, false
	}
	imageType, ok := baseTypes[trimmed]
	if !ok || imageType != media.ImageBackdrop {
		return "", 0, false
	}
	index, err := strconv.Atoi(base[len(trimmed):])
	if err != nil {
		return "", 0, false
	}
	return imageType, index, true
}
