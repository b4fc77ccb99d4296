package refresh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"curator/internal/config"
	"curator/internal/dispatch"
	"curator/internal/fetch"
	"curator/internal/imagesaver"
	"curator/internal/media"
	"curator/internal/provider"
	"curator/internal/providers/localimages"
	"curator/internal/savers/sidecar"
)

type remoteMetadata struct {
	name   string
	meta   media.Metadata
	err    error
	panics bool
}

func (r *remoteMetadata) Name() string { return r.name }

func (r *remoteMetadata) SupportsType(media.ItemType) bool { return true }

func (r *remoteMetadata) FetchMetadata(context.Context, media.Item, string) (media.Metadata, bool, error) {
	if r.panics {
		panic("bad response shape")
	}
	if r.err != nil {
		return media.Metadata{}, false, r.err
	}
	return r.meta, true, nil
}

type remoteArt struct {
	images []media.RemoteImageInfo
}

func (r *remoteArt) Name() string { return "Art" }

func (r *remoteArt) Supports(media.Item) (bool, error) { return true, nil }

func (r *remoteArt) SupportedImages(media.Item) []media.ImageType {
	return []media.ImageType{media.ImagePrimary, media.ImageBackdrop}
}

func (r *remoteArt) GetImages(context.Context, media.Item) ([]media.RemoteImageInfo, error) {
	return r.images, nil
}

func newEngine(t *testing.T, parts dispatch.Parts) *dispatch.Manager {
	t.Helper()
	cfg := config.Default()
	m, err := dispatch.New(dispatch.Deps{
		Config:  &cfg,
		Fetcher: fetch.New(fetch.Options{RequestsPerSecond: 100, Burst: 10}),
	})
	if err != nil {
		t.Fatalf("dispatch.New: %v", err)
	}
	m.SetImageSaver(imagesaver.New(m, nil))
	m.AddParts(parts)
	return m
}

func TestRefreshFillsMetadataDownloadsMissingArtAndSaves(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("art:" + r.URL.Path))
	}))
	defer server.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "poster.jpg"), []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}
	item := media.NewItem(media.TypeMovie, filepath.Join(dir, "Heat (1995).mkv"))
	item.Meta.Title = "Heat"

	art := &remoteArt{images: []media.RemoteImageInfo{
		{URL: server.URL + "/poster.jpg", Type: media.ImagePrimary, Language: "en"},
		{URL: server.URL + "/backdrop-a.jpg", Type: media.ImageBackdrop},
		{URL: server.URL + "/backdrop-b.jpg", Type: media.ImageBackdrop},
	}}
	engine := newEngine(t, dispatch.Parts{
		ImageProviders: []provider.Registration{
			provider.LocalImage(localimages.New()),
			provider.RemoteImage(art),
		},
		MetadataProviders: []provider.Registration{
			provider.LocalMetadata(sidecar.NewReader()),
			provider.RemoteMetadata(&remoteMetadata{name: "Broken", err: errors.New("timeout")}),
			provider.RemoteMetadata(&remoteMetadata{name: "Panics", panics: true}),
			provider.RemoteMetadata(&remoteMetadata{name: "Movies", meta: media.Metadata{
				Title:          "Heat (remote)",
				Overview:       "A group of professional bank robbers.",
				ProductionYear: 1995,
			}}),
		},
		Savers: []provider.SaverRegistration{provider.FileBackedSaver(sidecar.NewSaver(true))},
	})
	svc := New(engine, Options{})
	if !svc.CanRefresh(item) {
		t.Fatal("service should accept filesystem movie")
	}

	if err := svc.RefreshMetadata(context.Background(), item, provider.RefreshOptions{}); err != nil {
		t.Fatalf("RefreshMetadata: %v", err)
	}

	if item.Meta.Title != "Heat" || item.Meta.ProductionYear != 1995 || item.Meta.Overview == "" {
		t.Fatalf("metadata = %+v", item.Meta)
	}
	poster, err := os.ReadFile(filepath.Join(dir, "poster.jpg"))
	if err != nil || string(poster) != "existing" {
		t.Fatalf("existing poster replaced: %q, %v", poster, err)
	}
	backdrop, err := os.ReadFile(filepath.Join(dir, "backdrop.jpg"))
	if err != nil {
		t.Fatalf("backdrop not downloaded: %v", err)
	}
	if string(backdrop) != "art:/backdrop-a.jpg" {
		t.Fatalf("backdrop = %q", backdrop)
	}

	doc, err := sidecar.Load(item)
	if err != nil {
		t.Fatalf("sidecar not written: %v", err)
	}
	if doc.Metadata.Overview != item.Meta.Overview {
		t.Fatalf("sidecar metadata = %+v", doc.Metadata)
	}
}

func TestRefreshSkipsSaveWhenNothingChanged(t *testing.T) {
	saver := &countingSaver{}
	engine := newEngine(t, dispatch.Parts{
		Savers: []provider.SaverRegistration{provider.PlainSaver(saver)},
	})
	item := media.NewItem(media.TypeMovie, filepath.Join(t.TempDir(), "Heat.mkv"))

	if err := New(engine, Options{}).RefreshMetadata(context.Background(), item, provider.RefreshOptions{SkipImages: true}); err != nil {
		t.Fatalf("RefreshMetadata: %v", err)
	}
	if saver.saves != 0 {
		t.Fatalf("saves = %d, want 0", saver.saves)
	}
}

func TestRefreshHonorsCancellation(t *testing.T) {
	engine := newEngine(t, dispatch.Parts{MetadataProviders: []provider.Registration{
		provider.RemoteMetadata(&remoteMetadata{name: "Movies", meta: media.Metadata{Title: "x"}}),
	}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	item := media.NewItem(media.TypeMovie, filepath.Join(t.TempDir(), "Heat.mkv"))

	err := New(engine, Options{}).RefreshMetadata(ctx, item, provider.RefreshOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if item.Meta.Title != "" {
		t.Fatal("remote provider ran after cancellation")
	}
}

func TestCanRefresh(t *testing.T) {
	svc := New(nil, Options{ItemTypes: []media.ItemType{media.TypeMovie}})
	movie := media.NewItem(media.TypeMovie, "/library/Heat.mkv")
	if !svc.CanRefresh(movie) {
		t.Fatal("movie should be accepted")
	}
	if svc.CanRefresh(media.NewItem(media.TypeSeries, "/library/TV/The Wire")) {
		t.Fatal("series should be rejected")
	}
	movie.Location = media.LocationVirtual
	if svc.CanRefresh(movie) {
		t.Fatal("virtual item should be rejected")
	}
}

type countingSaver struct {
	saves int
}

func (c *countingSaver) Name() string { return "Counting" }

func (c *countingSaver) IsEnabledFor(media.Item, media.UpdateKind) (bool, error) { return true, nil }

func (c *countingSaver) Save(context.Context, media.Item) error {
	c.saves++
	return nil
}
