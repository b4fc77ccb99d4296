package dispatch

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"curator/internal/config"
	"curator/internal/fetch"
	"curator/internal/media"
	"curator/internal/pathlock"
	"curator/internal/provider"
)

type staticConfig struct {
	snapshot config.Snapshot
}

func (s *staticConfig) CurrentOptions() config.Snapshot { return s.snapshot }

func internetOn(opts ...config.MetadataOptions) *staticConfig {
	return &staticConfig{snapshot: config.Snapshot{EnableInternetProviders: true, MetadataOptions: opts}}
}

type remoteImages struct {
	name     string
	order    int
	supports bool
	err      error
	panics   bool
	images   []media.RemoteImageInfo
	kinds    []media.ImageType
	lookup   func(ctx context.Context) ([]media.RemoteImageInfo, error)
}

func (r *remoteImages) Name() string { return r.name }

func (r *remoteImages) Order() int { return r.order }

func (r *remoteImages) Supports(media.Item) (bool, error) {
	if r.panics {
		panic("supports exploded")
	}
	if r.err != nil {
		return false, r.err
	}
	return r.supports, nil
}

func (r *remoteImages) SupportedImages(media.Item) []media.ImageType { return r.kinds }

func (r *remoteImages) GetImages(ctx context.Context, _ media.Item) ([]media.RemoteImageInfo, error) {
	if r.lookup != nil {
		return r.lookup(ctx)
	}
	return r.images, nil
}

func newRemote(name string, order int, images ...media.RemoteImageInfo) *remoteImages {
	return &remoteImages{name: name, order: order, supports: true, images: images, kinds: []media.ImageType{media.ImagePrimary}}
}

type localImages struct {
	name  string
	order int
}

func (l *localImages) Name() string { return l.name }

func (l *localImages) Order() int { return l.order }

func (l *localImages) Supports(media.Item) (bool, error) { return true, nil }

func (l *localImages) GetImages(media.Item) ([]media.LocalImageInfo, error) { return nil, nil }

type dynamicImages struct {
	name  string
	kinds []media.ImageType
}

func (d *dynamicImages) Name() string { return d.name }

func (d *dynamicImages) Supports(media.Item) (bool, error) { return true, nil }

func (d *dynamicImages) SupportedImages(media.Item) []media.ImageType { return d.kinds }

type metadataSource struct {
	name  string
	order int
	types []media.ItemType
}

func (s *metadataSource) Name() string { return s.name }

func (s *metadataSource) Order() int { return s.order }

func (s *metadataSource) SupportsType(t media.ItemType) bool {
	if len(s.types) == 0 {
		return true
	}
	for _, candidate := range s.types {
		if candidate == t {
			return true
		}
	}
	return false
}

func (s *metadataSource) GetMetadata(context.Context, media.Item) (media.Metadata, bool, error) {
	return media.Metadata{}, false, nil
}

func (s *metadataSource) FetchMetadata(context.Context, media.Item, string) (media.Metadata, bool, error) {
	return media.Metadata{}, false, nil
}

type fakeSaver struct {
	name       string
	path       func(media.Item) (string, error)
	enabled    bool
	enabledErr error
	save       func(ctx context.Context, item media.Item) error

	mu    sync.Mutex
	saves int
}

func (f *fakeSaver) Name() string { return f.name }

func (f *fakeSaver) IsEnabledFor(media.Item, media.UpdateKind) (bool, error) {
	return f.enabled, f.enabledErr
}

func (f *fakeSaver) Save(ctx context.Context, item media.Item) error {
	f.mu.Lock()
	f.saves++
	f.mu.Unlock()
	if f.save != nil {
		return f.save(ctx, item)
	}
	return nil
}

func (f *fakeSaver) SavePath(item media.Item) (string, error) {
	if f.path == nil {
		return "", errors.New("no path")
	}
	return f.path(item)
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) ReportChangeBeginning(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "begin:"+path)
}

func (r *recordingNotifier) ReportChangeComplete(path string, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "complete:"+path)
}

func (r *recordingNotifier) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeService struct {
	name    string
	order   int
	accepts func(media.Item) bool
	calls   int
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Order() int { return s.order }

func (s *fakeService) CanRefresh(item media.Item) bool { return s.accepts(item) }

func (s *fakeService) RefreshMetadata(context.Context, media.Item, provider.RefreshOptions) error {
	s.calls++
	return nil
}

type fakeFetcher struct {
	body        string
	contentType string
	err         error
	requests    []fetch.Request
}

func (f *fakeFetcher) Fetch(_ context.Context, req fetch.Request) (*fetch.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &fetch.Response{Body: io.NopCloser(strings.NewReader(f.body)), ContentType: f.contentType}, nil
}

type trackingCloser struct {
	io.Reader
	closed bool
}

func (t *trackingCloser) Close() error {
	t.closed = true
	return nil
}

func newManager(t *testing.T, cfg ConfigSource, parts Parts) *Manager {
	t.Helper()
	m, err := New(Deps{Config: cfg, Locks: pathlock.New(pathlock.Options{})})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	m.AddParts(parts)
	return m
}

func names(regs []provider.Registration) []string {
	out := make([]string, 0, len(regs))
	for _, reg := range regs {
		out = append(out, reg.Name())
	}
	return out
}

func movie(t *testing.T) *media.BaseItem {
	t.Helper()
	return media.NewItem(media.TypeMovie, filepath.Join(t.TempDir(), "Heat (1995).mkv"))
}
