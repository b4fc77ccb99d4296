package media

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocationType describes where an item's media lives.
type LocationType int

const (
	LocationFileSystem LocationType = iota
	LocationRemote
	LocationVirtual
)

func (l LocationType) String() string {
	switch l {
	case LocationRemote:
		return "remote"
	case LocationVirtual:
		return "virtual"
	default:
		return "filesystem"
	}
}

// Item is the view of a library item used for provider selection and saving.
type Item interface {
	ID() uuid.UUID
	Name() string
	Path() string
	Type() ItemType
	// PreferredMetadataLanguage may be empty when no preference is set.
	PreferredMetadataLanguage() string
	SupportsLocalMetadata() bool
	// IsOwnedItem reports whether the item is subordinate to a parent item
	// (for example a trailer stored with its movie).
	IsOwnedItem() bool
	LocationType() LocationType
}

// BaseItem is a plain Item implementation.
type BaseItem struct {
	ItemID            uuid.UUID
	ItemName          string
	ItemPath          string
	Kind              ItemType
	Language          string
	LocalMetadata     bool
	Owned             bool
	Location          LocationType
	ContainingDirPath string
	Meta              Metadata
}

// NewItem builds a filesystem item rooted at path. The name defaults to the
// base name of path without its extension.
func NewItem(kind ItemType, path string) *BaseItem {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &BaseItem{
		ItemID:        uuid.New(),
		ItemName:      name,
		ItemPath:      path,
		Kind:          kind,
		LocalMetadata: true,
		Location:      LocationFileSystem,
	}
}

func (b *BaseItem) ID() uuid.UUID { return b.ItemID }

func (b *BaseItem) Name() string { return b.ItemName }

func (b *BaseItem) Path() string { return b.ItemPath }

func (b *BaseItem) Type() ItemType { return b.Kind }

func (b *BaseItem) PreferredMetadataLanguage() string { return b.Language }

func (b *BaseItem) SupportsLocalMetadata() bool { return b.LocalMetadata }

func (b *BaseItem) IsOwnedItem() bool { return b.Owned }

func (b *BaseItem) LocationType() LocationType { return b.Location }

// Metadata exposes the item's descriptive fields for refresh and savers.
func (b *BaseItem) Metadata() *Metadata { return &b.Meta }

// ContainingFolder returns the directory holding the item's metadata. Folder
// items (series, albums, box sets) keep metadata inside their own path.
func ContainingFolder(item Item) string {
	if b, ok := item.(*BaseItem); ok && b.ContainingDirPath != "" {
		return b.ContainingDirPath
	}
	path := item.Path()
	if path == "" {
		return ""
	}
	if IsFolderType(item.Type()) {
		return path
	}
	return filepath.Dir(path)
}

// IsFolderType reports whether items of type t are represented by a directory.
func IsFolderType(t ItemType) bool {
	switch t {
	case TypeSeries, TypeSeason, TypeMusicAlbum, TypeMusicArtist, TypeBoxSet, TypeGameSystem, TypePerson:
		return true
	default:
		return false
	}
}

// Placeholder builds a synthetic filesystem item of type t used to ask
// providers what they would do for that category. It is never persisted.
func Placeholder(t ItemType) *BaseItem {
	return &BaseItem{
		ItemID:        uuid.Nil,
		ItemName:      string(t),
		ItemPath:      filepath.Join(string(filepath.Separator), "placeholder", strings.ToLower(string(t))),
		Kind:          t,
		LocalMetadata: true,
		Location:      LocationFileSystem,
	}
}
