package sidecar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"curator/internal/fileutil"
	"curator/internal/media"
	"curator/internal/services"
)

// Name is the display name shared by the saver and the reader.
const Name = "Curator Sidecar"

const (
	documentVersion = 1
	fileSuffix      = ".curator.json"
	folderFileName  = "curator.json"
)

// Document is the on-disk sidecar format.
type Document struct {
	Version  int            `json:"version"`
	ItemID   string         `json:"item_id,omitempty"`
	Name     string         `json:"name"`
	Type     media.ItemType `json:"type"`
	SavedAt  time.Time      `json:"saved_at"`
	Metadata media.Metadata `json:"metadata"`
}

// Path returns the sidecar location for item.
func Path(item media.Item) (string, error) {
	if item == nil {
		return "", services.Wrap(services.ErrValidation, "sidecar", "path", "item is required", nil)
	}
	path := strings.TrimSpace(item.Path())
	if path == "" {
		return "", services.Wrap(services.ErrValidation, "sidecar", "path", "item has no path", nil)
	}
	if media.IsFolderType(item.Type()) {
		return filepath.Join(media.ContainingFolder(item), folderFileName), nil
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(media.ContainingFolder(item), base+fileSuffix), nil
}

// Saver writes sidecar documents.
type Saver struct {
	enabled bool
	now     func() time.Time
}

// NewSaver constructs a Saver. A disabled saver reports itself as not
// enabled for every item.
func NewSaver(enabled bool) *Saver {
	return &Saver{enabled: enabled, now: time.Now}
}

func (s *Saver) Name() string { return Name }

// IsEnabledFor accepts filesystem items with local metadata support when the
// update touched metadata.
func (s *Saver) IsEnabledFor(item media.Item, kind media.UpdateKind) (bool, error) {
	if !s.enabled || item == nil {
		return false, nil
	}
	if !item.SupportsLocalMetadata() || item.LocationType() != media.LocationFileSystem {
		return false, nil
	}
	if item.IsOwnedItem() {
		return false, nil
	}
	return kind.Has(media.UpdateMetadataEdit) ||
		kind.Has(media.UpdateMetadataDownload) ||
		kind.Has(media.UpdateMetadataImport), nil
}

// SavePath returns the sidecar location for item.
func (s *Saver) SavePath(item media.Item) (string, error) {
	return Path(item)
}

// Save writes the sidecar atomically.
func (s *Saver) Save(ctx context.Context, item media.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := Path(item)
	if err != nil {
		return err
	}
	doc := Document{
		Version: documentVersion,
		Name:    item.Name(),
		Type:    item.Type(),
		SavedAt: s.now().UTC(),
	}
	if id := item.ID(); id != uuid.Nil {
		doc.ItemID = id.String()
	}
	if meta := media.MetadataOf(item); meta != nil {
		doc.Metadata = meta.Clone()
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// Reader loads sidecar documents as local metadata.
type Reader struct{}

// NewReader constructs a Reader.
func NewReader() *Reader { return &Reader{} }

func (r *Reader) Name() string { return Name }

// SupportsType accepts every item type.
func (r *Reader) SupportsType(media.ItemType) bool { return true }

// GetMetadata returns the stored metadata, or false when no sidecar exists.
func (r *Reader) GetMetadata(ctx context.Context, item media.Item) (media.Metadata, bool, error) {
	if err := ctx.Err(); err != nil {
		return media.Metadata{}, false, err
	}
	doc, err := Load(item)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return media.Metadata{}, false, nil
		}
		return media.Metadata{}, false, err
	}
	return doc.Metadata, !doc.Metadata.IsEmpty(), nil
}

// Load reads the sidecar for item.
func Load(item media.Item) (Document, error) {
	path, err := Path(item)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode sidecar %s: %w", path, err)
	}
	if doc.Version > documentVersion {
		return Document{}, fmt.Errorf("sidecar %s: unsupported version %d", path, doc.Version)
	}
	return doc, nil
}
