package media

import (
	"path/filepath"
	"testing"
)

func TestOptionsTypeNormalizesTrailer(t *testing.T) {
	if got := TypeTrailer.OptionsType(); got != TypeMovie {
		t.Fatalf("Trailer.OptionsType() = %q, want %q", got, TypeMovie)
	}
	if got := TypeSeries.OptionsType(); got != TypeSeries {
		t.Fatalf("Series.OptionsType() = %q, want %q", got, TypeSeries)
	}
}

func TestParseItemType(t *testing.T) {
	got, err := ParseItemType(" musicalbum ")
	if err != nil {
		t.Fatalf("ParseItemType returned error: %v", err)
	}
	if got != TypeMusicAlbum {
		t.Fatalf("ParseItemType = %q, want %q", got, TypeMusicAlbum)
	}
	if _, err := ParseItemType("spaceship"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestParseImageType(t *testing.T) {
	got, err := ParseImageType("backdrop")
	if err != nil || got != ImageBackdrop {
		t.Fatalf("ParseImageType = %q, %v", got, err)
	}
	if _, err := ParseImageType("poster"); err == nil {
		t.Fatal("expected error for unknown image type")
	}
}

func TestUpdateKindHas(t *testing.T) {
	kind := UpdateMetadataDownload | UpdateImageUpdate
	if !kind.Has(UpdateImageUpdate) {
		t.Fatal("expected image update flag")
	}
	if kind.Has(UpdateMetadataEdit) {
		t.Fatal("did not expect metadata edit flag")
	}
	if kind.Has(UpdateNone) {
		t.Fatal("zero flag should never match")
	}
}

func TestNewItemDefaults(t *testing.T) {
	path := filepath.Join("/media", "movies", "Heat (1995)", "Heat.mkv")
	item := NewItem(TypeMovie, path)
	if item.Name() != "Heat" {
		t.Fatalf("unexpected name %q", item.Name())
	}
	if !item.SupportsLocalMetadata() || item.IsOwnedItem() {
		t.Fatal("unexpected default flags")
	}
	if got := ContainingFolder(item); got != filepath.Dir(path) {
		t.Fatalf("ContainingFolder = %q", got)
	}

	series := NewItem(TypeSeries, filepath.Join("/media", "tv", "Lost"))
	if got := ContainingFolder(series); got != series.Path() {
		t.Fatalf("ContainingFolder for series = %q", got)
	}
}

func TestPlaceholderLooksLikeFilesystemItem(t *testing.T) {
	for _, kind := range SummaryTypes {
		item := Placeholder(kind)
		if item.Path() == "" || item.LocationType() != LocationFileSystem {
			t.Fatalf("placeholder for %s is not a filesystem item", kind)
		}
		if !item.SupportsLocalMetadata() {
			t.Fatalf("placeholder for %s must support local metadata", kind)
		}
	}
}

func TestMetadataFillMissingKeepsExistingFields(t *testing.T) {
	meta := Metadata{Title: "Local Title", ProviderIDs: map[string]string{"tmdb": "1"}}
	changed := meta.FillMissing(Metadata{
		Title:          "Remote Title",
		Overview:       "A film.",
		ProductionYear: 1999,
		ProviderIDs:    map[string]string{"tmdb": "2", "imdb": "tt01"},
	})
	if !changed {
		t.Fatal("expected FillMissing to report a change")
	}
	if meta.Title != "Local Title" {
		t.Fatalf("title overwritten: %q", meta.Title)
	}
	if meta.Overview != "A film." || meta.ProductionYear != 1999 {
		t.Fatalf("missing fields not filled: %+v", meta)
	}
	if meta.ProviderIDs["tmdb"] != "1" || meta.ProviderIDs["imdb"] != "tt01" {
		t.Fatalf("provider ids = %v", meta.ProviderIDs)
	}
	if meta.FillMissing(Metadata{Title: "Other"}) {
		t.Fatal("expected no change when every field is already set")
	}
}

func TestMetadataOfUsesHolder(t *testing.T) {
	item := NewItem(TypeMovie, filepath.Join(t.TempDir(), "Heat.mkv"))
	MetadataOf(item).Title = "Heat"
	if item.Meta.Title != "Heat" {
		t.Fatalf("MetadataOf did not expose the item's metadata")
	}
	clone := item.Meta.Clone()
	clone.Genres = append(clone.Genres, "Crime")
	if len(item.Meta.Genres) != 0 {
		t.Fatal("Clone shares the genres slice")
	}
}
