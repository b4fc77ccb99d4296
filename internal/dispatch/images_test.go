package dispatch

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/semaphore"

	"curator/internal/config"
	"curator/internal/media"
	"curator/internal/provider"
	"curator/internal/services"
)

func imageURLs(images []media.RemoteImageInfo) []string {
	out := make([]string, 0, len(images))
	for _, image := range images {
		out = append(out, image.URL)
	}
	return out
}

func TestRemoteImagesEnglishKeepsUntaggedAndEnglish(t *testing.T) {
	m := newManager(t, internetOn(), Parts{ImageProviders: []provider.Registration{
		provider.RemoteImage(newRemote("TMDb", 0,
			media.RemoteImageInfo{URL: "untagged", Type: media.ImagePrimary},
			media.RemoteImageInfo{URL: "english", Type: media.ImagePrimary, Language: "en"},
			media.RemoteImageInfo{URL: "french", Type: media.ImagePrimary, Language: "fr"},
			media.RemoteImageInfo{URL: "regional", Type: media.ImagePrimary, Language: "en-GB"},
		)),
	}})

	images, err := m.GetAvailableRemoteImages(context.Background(), movie(t), RemoteImageQuery{Language: "en"})
	if err != nil {
		t.Fatalf("GetAvailableRemoteImages: %v", err)
	}
	if got, want := imageURLs(images), []string{"untagged", "english", "regional"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("images = %v, want %v", got, want)
	}
}

func TestRemoteImagesOtherLanguagesPassThrough(t *testing.T) {
	m := newManager(t, internetOn(), Parts{ImageProviders: []provider.Registration{
		provider.RemoteImage(newRemote("TMDb", 0,
			media.RemoteImageInfo{URL: "english", Language: "en"},
			media.RemoteImageInfo{URL: "french", Language: "fr"},
		)),
	}})

	item := movie(t)
	item.Language = "fr"
	images, err := m.GetAvailableRemoteImages(context.Background(), item, RemoteImageQuery{})
	if err != nil {
		t.Fatalf("GetAvailableRemoteImages: %v", err)
	}
	if got := imageURLs(images); len(got) != 2 {
		t.Fatalf("expected no filtering for french, got %v", got)
	}
}

func TestRemoteImagesEffectiveLanguage(t *testing.T) {
	images := []media.RemoteImageInfo{
		{URL: "english", Language: "en"},
		{URL: "german", Language: "de"},
	}
	cfg := internetOn()
	cfg.snapshot.PreferredMetadataLanguage = "en"
	m := newManager(t, cfg, Parts{ImageProviders: []provider.Registration{
		provider.RemoteImage(newRemote("TMDb", 0, images...)),
	}})

	tests := []struct {
		name     string
		itemLang string
		query    RemoteImageQuery
		want     []string
	}{
		{"server default applies", "", RemoteImageQuery{}, []string{"english"}},
		{"item preference wins", "de", RemoteImageQuery{}, []string{"english", "german"}},
		{"query language wins", "de", RemoteImageQuery{Language: "eng"}, []string{"english"}},
		{"all languages", "en", RemoteImageQuery{IncludeAllLanguages: true}, []string{"english", "german"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := movie(t)
			item.Language = tt.itemLang
			got, err := m.GetAvailableRemoteImages(context.Background(), item, tt.query)
			if err != nil {
				t.Fatalf("GetAvailableRemoteImages: %v", err)
			}
			if urls := imageURLs(got); !reflect.DeepEqual(urls, tt.want) {
				t.Fatalf("images = %v, want %v", urls, tt.want)
			}
		})
	}
}

func TestRemoteImagesRunConcurrentlyAndMergeInProviderOrder(t *testing.T) {
	secondStarted := make(chan struct{})
	first := &remoteImages{name: "First", supports: true, lookup: func(ctx context.Context) ([]media.RemoteImageInfo, error) {
		select {
		case <-secondStarted:
		case <-time.After(2 * time.Second):
			return nil, errors.New("second provider never started")
		}
		return []media.RemoteImageInfo{{URL: "first-1"}, {URL: "first-2"}}, nil
	}}
	second := &remoteImages{name: "Second", supports: true, lookup: func(ctx context.Context) ([]media.RemoteImageInfo, error) {
		close(secondStarted)
		return []media.RemoteImageInfo{{URL: "second-1"}}, nil
	}}
	cfg := internetOn(config.MetadataOptions{ItemType: "Movie", ImageFetcherOrder: []string{"First", "Second"}})
	m := newManager(t, cfg, Parts{ImageProviders: []provider.Registration{
		provider.RemoteImage(second),
		provider.RemoteImage(first),
	}})

	images, err := m.GetAvailableRemoteImages(context.Background(), movie(t), RemoteImageQuery{IncludeAllLanguages: true})
	if err != nil {
		t.Fatalf("GetAvailableRemoteImages: %v", err)
	}
	if got, want := imageURLs(images), []string{"first-1", "first-2", "second-1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("images = %v, want %v", got, want)
	}
	for _, image := range images {
		if !strings.HasPrefix(strings.ToLower(image.URL), strings.ToLower(image.ProviderName)) {
			t.Fatalf("image %q stamped with provider %q", image.URL, image.ProviderName)
		}
	}
}

func TestRemoteImagesIsolateProviderFailures(t *testing.T) {
	failing := &remoteImages{name: "Failing", supports: true, lookup: func(context.Context) ([]media.RemoteImageInfo, error) {
		return nil, errors.New("upstream 500")
	}}
	panicking := &remoteImages{name: "Panicking", supports: true, lookup: func(context.Context) ([]media.RemoteImageInfo, error) {
		panic("nil map")
	}}
	m := newManager(t, internetOn(), Parts{ImageProviders: []provider.Registration{
		provider.RemoteImage(failing),
		provider.RemoteImage(newRemote("Healthy", 0, media.RemoteImageInfo{URL: "ok"})),
		provider.RemoteImage(panicking),
	}})

	images, err := m.GetAvailableRemoteImages(context.Background(), movie(t), RemoteImageQuery{})
	if err != nil {
		t.Fatalf("GetAvailableRemoteImages: %v", err)
	}
	if got := imageURLs(images); !reflect.DeepEqual(got, []string{"ok"}) {
		t.Fatalf("images = %v, want [ok]", got)
	}
}

func TestRemoteImagesProviderAndTypeFilters(t *testing.T) {
	m := newManager(t, internetOn(), Parts{ImageProviders: []provider.Registration{
		provider.RemoteImage(newRemote("TMDb", 0,
			media.RemoteImageInfo{URL: "tmdb-poster", Type: media.ImagePrimary},
			media.RemoteImageInfo{URL: "tmdb-backdrop", Type: media.ImageBackdrop},
		)),
		provider.RemoteImage(newRemote("Fanart", 0,
			media.RemoteImageInfo{URL: "fanart-backdrop", Type: media.ImageBackdrop},
		)),
	}})
	item := movie(t)

	got, err := m.GetAvailableRemoteImages(context.Background(), item, RemoteImageQuery{ProviderName: "fanart"})
	if err != nil {
		t.Fatalf("GetAvailableRemoteImages: %v", err)
	}
	if urls := imageURLs(got); !reflect.DeepEqual(urls, []string{"fanart-backdrop"}) {
		t.Fatalf("provider filter = %v", urls)
	}

	got, err = m.GetAvailableRemoteImages(context.Background(), item, RemoteImageQuery{ImageType: media.ImageBackdrop})
	if err != nil {
		t.Fatalf("GetAvailableRemoteImages: %v", err)
	}
	if urls := imageURLs(got); !reflect.DeepEqual(urls, []string{"tmdb-backdrop", "fanart-backdrop"}) {
		t.Fatalf("type filter = %v", urls)
	}

	got, err = m.GetAvailableRemoteImages(context.Background(), item, RemoteImageQuery{ProviderName: "missing"})
	if err != nil || len(got) != 0 {
		t.Fatalf("unknown provider = %v, %v", got, err)
	}
}

func TestRemoteImagesContractAndCancellation(t *testing.T) {
	called := false
	lookup := &remoteImages{name: "TMDb", supports: true, lookup: func(context.Context) ([]media.RemoteImageInfo, error) {
		called = true
		return nil, nil
	}}
	m := newManager(t, internetOn(), Parts{ImageProviders: []provider.Registration{provider.RemoteImage(lookup)}})

	if _, err := m.GetAvailableRemoteImages(context.Background(), nil, RemoteImageQuery{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("nil item: expected validation error, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.GetAvailableRemoteImages(ctx, movie(t), RemoteImageQuery{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled: expected context.Canceled, got %v", err)
	}
	if called {
		t.Fatal("provider invoked after cancellation")
	}
}

func TestRemoteImageProviderInfo(t *testing.T) {
	remote := newRemote("TMDb", 0)
	remote.kinds = []media.ImageType{media.ImagePrimary, media.ImageBackdrop}
	m := newManager(t, internetOn(), Parts{ImageProviders: []provider.Registration{
		provider.LocalImage(&localImages{name: "Local"}),
		provider.RemoteImage(remote),
	}})

	infos := m.GetRemoteImageProviderInfo(context.Background(), movie(t))
	if len(infos) != 1 || infos[0].Name != "TMDb" {
		t.Fatalf("infos = %+v", infos)
	}
	if !reflect.DeepEqual(infos[0].SupportedImages, remote.kinds) {
		t.Fatalf("supported = %v", infos[0].SupportedImages)
	}
}

type capturingImageSaver struct {
	mimeType  string
	imageType media.ImageType
	index     int
	body      string
}

func (c *capturingImageSaver) SaveImage(_ context.Context, _ media.Item, body io.ReadCloser, mimeType string, imageType media.ImageType, index int) error {
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	c.body = string(data)
	c.mimeType = mimeType
	c.imageType = imageType
	c.index = index
	return nil
}

func TestSaveImageFetchesAndDelegates(t *testing.T) {
	fetcher := &fakeFetcher{body: "jpeg-bytes", contentType: "image/jpeg"}
	m, err := New(Deps{Config: internetOn(), Fetcher: fetcher})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	saver := &capturingImageSaver{}
	m.SetImageSaver(saver)
	pool := semaphore.NewWeighted(2)

	if err := m.SaveImage(context.Background(), movie(t), "https://img.example/poster.jpg", pool, media.ImageBackdrop, 2); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if len(fetcher.requests) != 1 || fetcher.requests[0].Pool != pool {
		t.Fatalf("fetch requests = %+v", fetcher.requests)
	}
	if saver.body != "jpeg-bytes" || saver.mimeType != "image/jpeg" || saver.imageType != media.ImageBackdrop || saver.index != 2 {
		t.Fatalf("saver received %+v", saver)
	}
}

func TestSaveImageStreamValidation(t *testing.T) {
	m := newManager(t, internetOn(), Parts{})
	body := &trackingCloser{Reader: strings.NewReader("x")}

	if err := m.SaveImageStream(context.Background(), movie(t), body, "image/png", media.ImagePrimary, 0); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error without saver, got %v", err)
	}
	if !body.closed {
		t.Fatal("stream not closed on rejected save")
	}
	if err := m.SaveImageStream(context.Background(), movie(t), nil, "image/png", media.ImagePrimary, 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for nil stream, got %v", err)
	}
	if err := m.SaveImage(context.Background(), movie(t), "", nil, media.ImagePrimary, 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty url, got %v", err)
	}
	if err := m.SaveImage(context.Background(), movie(t), "https://img/x.jpg", nil, media.ImagePrimary, 0); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error without fetcher, got %v", err)
	}
}
