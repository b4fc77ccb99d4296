package imagesaver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"curator/internal/logging"
	"curator/internal/media"
	"curator/internal/services"
)

// LibraryWriter performs a guarded write into the library.
type LibraryWriter interface {
	SaveToLibraryFilesystem(ctx context.Context, item media.Item, path string, body io.ReadCloser) error
}

// Saver resolves image file names and writes through a LibraryWriter.
type Saver struct {
	writer LibraryWriter
	logger *slog.Logger
}

// New constructs a Saver.
func New(writer LibraryWriter, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Saver{
		writer: writer,
		logger: logging.NewComponentLogger(logger, "imagesaver"),
	}
}

// SaveImage writes body as the item's image of the given type and index.
// body is always closed.
func (s *Saver) SaveImage(ctx context.Context, item media.Item, body io.ReadCloser, mimeType string, imageType media.ImageType, index int) error {
	if body == nil {
		return services.Wrap(services.ErrValidation, "imagesaver", "save", "stream is required", nil)
	}
	path, err := ImagePath(item, mimeType, imageType, index)
	if err != nil {
		body.Close()
		return err
	}
	if err := s.writer.SaveToLibraryFilesystem(ctx, item, path, body); err != nil {
		return err
	}
	s.logger.Info("saved image",
		logging.String(logging.FieldPath, path),
		logging.String(logging.FieldItemType, string(item.Type())),
		logging.String("image_type", string(imageType)),
		logging.Int("index", index),
	)
	return nil
}

var baseNames = map[media.ImageType]string{
	media.ImagePrimary:  "poster",
	media.ImageArt:      "clearart",
	media.ImageBackdrop: "backdrop",
	media.ImageBanner:   "banner",
	media.ImageLogo:     "logo",
	media.ImageThumb:    "thumb",
	media.ImageDisc:     "disc",
	media.ImageBox:      "box",
	media.ImageMenu:     "menu",
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
}

// ImagePath returns where an image of the given type and index is stored for
// item. Folder items use "folder" for their primary image. Indexes above zero
// are appended to the base name.
func ImagePath(item media.Item, mimeType string, imageType media.ImageType, index int) (string, error) {
	if item == nil {
		return "", services.Wrap(services.ErrValidation, "imagesaver", "path", "item is required", nil)
	}
	dir := media.ContainingFolder(item)
	if dir == "" {
		return "", services.Wrap(services.ErrValidation, "imagesaver", "path", "item has no path", nil)
	}
	base, ok := baseNames[imageType]
	if !ok {
		return "", services.Wrap(services.ErrValidation, "imagesaver", "path",
			fmt.Sprintf("unsupported image type %q", imageType), nil)
	}
	if imageType == media.ImagePrimary && media.IsFolderType(item.Type()) {
		base = "folder"
	}
	if index < 0 {
		return "", services.Wrap(services.ErrValidation, "imagesaver", "path", "index must not be negative", nil)
	}
	if index > 0 {
		base = fmt.Sprintf("%s%d", base, index)
	}
	ext, err := Extension(mimeType)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, base+ext), nil
}

// Extension maps an image MIME type to a file extension.
func Extension(mimeType string) (string, error) {
	mediaType := strings.ToLower(strings.TrimSpace(mimeType))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}
	if ext, ok := extensions[mediaType]; ok {
		return ext, nil
	}
	return "", services.Wrap(services.ErrValidation, "imagesaver", "extension",
		fmt.Sprintf("unsupported image mime type %q", mimeType), nil)
}
