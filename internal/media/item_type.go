package media

import (
	"fmt"
	"strings"
)

// ItemType identifies the category of a library item.
type ItemType string

const (
	TypeMovie         ItemType = "Movie"
	TypeTrailer       ItemType = "Trailer"
	TypeBoxSet        ItemType = "BoxSet"
	TypeSeries        ItemType = "Series"
	TypeSeason        ItemType = "Season"
	TypeEpisode       ItemType = "Episode"
	TypeMusicAlbum    ItemType = "MusicAlbum"
	TypeMusicArtist   ItemType = "MusicArtist"
	TypeAudio         ItemType = "Audio"
	TypeMusicVideo    ItemType = "MusicVideo"
	TypeVideo         ItemType = "Video"
	TypeBook          ItemType = "Book"
	TypeGame          ItemType = "Game"
	TypeGameSystem    ItemType = "GameSystem"
	TypePerson        ItemType = "Person"
	TypeLiveTvChannel ItemType = "LiveTvChannel"
	TypeAdultVideo    ItemType = "AdultVideo"
)

// SummaryTypes is the fixed, ordered set of categories reported by plugin
// introspection.
var SummaryTypes = []ItemType{
	TypeGame,
	TypeGameSystem,
	TypeMovie,
	TypeTrailer,
	TypeBoxSet,
	TypeBook,
	TypeSeries,
	TypeSeason,
	TypeEpisode,
	TypePerson,
	TypeMusicAlbum,
	TypeMusicArtist,
	TypeAudio,
	TypeMusicVideo,
	TypeVideo,
	TypeLiveTvChannel,
	TypeAdultVideo,
}

// parentTypes maps subordinate types onto the category whose options and
// providers they share.
var parentTypes = map[ItemType]ItemType{
	TypeTrailer: TypeMovie,
}

// OptionsType returns the type used for options lookup: subordinate types
// resolve to their parent category.
func (t ItemType) OptionsType() ItemType {
	if parent, ok := parentTypes[t]; ok {
		return parent
	}
	return t
}

func (t ItemType) String() string {
	return string(t)
}

// ParseItemType resolves a case-insensitive item type name.
func ParseItemType(value string) (ItemType, error) {
	value = strings.TrimSpace(value)
	for _, t := range SummaryTypes {
		if strings.EqualFold(string(t), value) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown item type %q", value)
}
