package provider

import (
	"context"

	"curator/internal/media"
)

// Saver persists an item's metadata somewhere.
type Saver interface {
	Name() string
	IsEnabledFor(item media.Item, kind media.UpdateKind) (bool, error)
	Save(ctx context.Context, item media.Item) error
}

// FileSaver writes a file into the library. The engine serializes writes to
// the same path and announces them to the change notifier.
type FileSaver interface {
	Saver
	SavePath(item media.Item) (string, error)
}

// SaverRegistration is a saver plus whether it is file-backed.
type SaverRegistration struct {
	Saver Saver
	File  FileSaver
}

// Name returns the saver's display name.
func (s SaverRegistration) Name() string {
	if s.Saver == nil {
		return ""
	}
	return s.Saver.Name()
}

// IsFileBacked reports whether the saver writes into the library filesystem.
func (s SaverRegistration) IsFileBacked() bool { return s.File != nil }

// FileBackedSaver registers a saver that writes to a library path.
func FileBackedSaver(s FileSaver) SaverRegistration {
	return SaverRegistration{Saver: s, File: s}
}

// PlainSaver registers a saver that persists elsewhere.
func PlainSaver(s Saver) SaverRegistration {
	return SaverRegistration{Saver: s}
}
