package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/media"
	"curator/internal/savers/sidecar"
)

// itemFlags are shared by commands that operate on a single item path.
type itemFlags struct {
	itemType string
	language string
	owned    bool
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.itemType, "type", "t", "Movie", "Item type (Movie, Series, Episode, ...)")
	cmd.Flags().StringVar(&f.language, "item-language", "", "Preferred metadata language of the item")
	cmd.Flags().BoolVar(&f.owned, "owned", false, "Treat the item as owned by a parent item")
}

// resolve builds the item for path. An existing sidecar supplies the item ID
// and previously saved metadata.
func (f *itemFlags) resolve(path string) (*media.BaseItem, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("item path is required")
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve item path: %w", err)
	}
	kind, err := media.ParseItemType(f.itemType)
	if err != nil {
		return nil, err
	}

	item := media.NewItem(kind, expanded)
	item.Language = strings.TrimSpace(f.language)
	item.Owned = f.owned

	doc, err := sidecar.Load(item)
	switch {
	case err == nil:
		if id, parseErr := uuid.Parse(doc.ItemID); parseErr == nil {
			item.ItemID = id
		}
		if strings.TrimSpace(doc.Name) != "" {
			item.ItemName = doc.Name
		}
		item.Meta = doc.Metadata
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	return item, nil
}
