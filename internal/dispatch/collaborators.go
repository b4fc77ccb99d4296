package dispatch

import (
	"context"
	"io"

	"curator/internal/config"
	"curator/internal/fetch"
	"curator/internal/fileutil"
	"curator/internal/media"
)

// ConfigSource supplies the current metadata options. Manager calls it once
// per operation and never caches the result.
type ConfigSource interface {
	CurrentOptions() config.Snapshot
}

// ChangeNotifier is told about every managed write so a filesystem watcher
// can ignore self-induced changes.
type ChangeNotifier interface {
	ReportChangeBeginning(path string)
	ReportChangeComplete(path string, isDirectory bool)
}

// StreamWriter creates or truncates path and copies r into it.
type StreamWriter interface {
	WriteStream(ctx context.Context, path string, r io.Reader) error
}

// ImageSaver persists a downloaded or uploaded image for an item.
// Implementations close body.
type ImageSaver interface {
	SaveImage(ctx context.Context, item media.Item, body io.ReadCloser, mimeType string, imageType media.ImageType, index int) error
}

// Fetcher retrieves remote images.
type Fetcher = fetch.Fetcher

// StreamWriterFunc adapts a function to StreamWriter.
type StreamWriterFunc func(ctx context.Context, path string, r io.Reader) error

// WriteStream calls f.
func (f StreamWriterFunc) WriteStream(ctx context.Context, path string, r io.Reader) error {
	return f(ctx, path, r)
}

var defaultStreamWriter = StreamWriterFunc(fileutil.WriteStream)

type noopNotifier struct{}

func (noopNotifier) ReportChangeBeginning(string) {}

func (noopNotifier) ReportChangeComplete(string, bool) {}
