package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"curator/internal/dispatch"
	"curator/internal/logging"
	"curator/internal/media"
	"curator/internal/provider"
)

// Engine is the part of the dispatch manager a refresh drives.
type Engine interface {
	GetMetadataProviders(ctx context.Context, item media.Item) []provider.Registration
	GetImageProviders(ctx context.Context, item media.Item) []provider.Registration
	GetAvailableRemoteImages(ctx context.Context, item media.Item, query dispatch.RemoteImageQuery) ([]media.RemoteImageInfo, error)
	SaveImage(ctx context.Context, item media.Item, url string, pool *semaphore.Weighted, imageType media.ImageType, index int) error
	SaveMetadata(ctx context.Context, item media.Item, kind media.UpdateKind) error
}

// Options configures a Service.
type Options struct {
	Name  string
	Order int
	// ItemTypes limits the service to these types; empty accepts all.
	ItemTypes []media.ItemType
	// ImageConcurrency bounds parallel image downloads per refresh.
	ImageConcurrency int64
	Logger           *slog.Logger
}

// Service is a provider.MetadataService.
type Service struct {
	engine    Engine
	name      string
	order     int
	itemTypes []media.ItemType
	images    int64
	logger    *slog.Logger
}

// New constructs a Service.
func New(engine Engine, opts Options) *Service {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "Curator Refresh"
	}
	images := opts.ImageConcurrency
	if images <= 0 {
		images = 2
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		engine:    engine,
		name:      name,
		order:     opts.Order,
		itemTypes: slices.Clone(opts.ItemTypes),
		images:    images,
		logger:    logging.NewComponentLogger(logger, "refresh"),
	}
}

func (s *Service) Name() string { return s.name }

func (s *Service) Order() int { return s.order }

// CanRefresh accepts filesystem items that carry metadata and match the
// configured types.
func (s *Service) CanRefresh(item media.Item) bool {
	if item == nil || item.LocationType() != media.LocationFileSystem {
		return false
	}
	if media.MetadataOf(item) == nil {
		return false
	}
	return len(s.itemTypes) == 0 || slices.Contains(s.itemTypes, item.Type())
}

// RefreshMetadata runs a full refresh of item.
func (s *Service) RefreshMetadata(ctx context.Context, item media.Item, opts provider.RefreshOptions) error {
	meta := media.MetadataOf(item)
	if meta == nil {
		return fmt.Errorf("refresh: %s item carries no metadata", item.Type())
	}
	logger := logging.WithContext(ctx, s.logger).With(
		logging.String(logging.FieldItemType, string(item.Type())),
		logging.String(logging.FieldPath, item.Path()),
	)
	if opts.ReplaceAllMetadata {
		*meta = media.Metadata{}
	}

	kind := s.refreshFields(ctx, logger, item, meta, opts)
	if err := ctx.Err(); err != nil {
		return err
	}
	if !opts.SkipImages {
		if saved := s.refreshImages(ctx, logger, item, opts); saved > 0 {
			kind |= media.UpdateImageUpdate
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if kind == media.UpdateNone {
		logger.Debug("refresh found nothing to save")
		return nil
	}
	logger.Info("metadata refreshed", logging.Int("update_kind", int(kind)))
	return s.engine.SaveMetadata(ctx, item, kind)
}

func (s *Service) refreshFields(ctx context.Context, logger *slog.Logger, item media.Item, meta *media.Metadata, opts provider.RefreshOptions) media.UpdateKind {
	lang := strings.TrimSpace(opts.Language)
	if lang == "" {
		lang = item.PreferredMetadataLanguage()
	}
	kind := media.UpdateNone
	providers := s.engine.GetMetadataProviders(ctx, item)

	for _, reg := range providers {
		if reg.LocalMetadata == nil {
			continue
		}
		found, err := safely(func() (media.Metadata, bool, error) { return reg.LocalMetadata.GetMetadata(ctx, item) })
		if err != nil {
			s.providerFailed(logger, reg.Name(), "local metadata provider failed", err)
			continue
		}
		if found != nil && meta.FillMissing(*found) {
			kind |= media.UpdateMetadataImport
		}
	}
	for _, reg := range providers {
		if reg.RemoteMetadata == nil {
			continue
		}
		if ctx.Err() != nil {
			return kind
		}
		found, err := safely(func() (media.Metadata, bool, error) { return reg.RemoteMetadata.FetchMetadata(ctx, item, lang) })
		if err != nil {
			s.providerFailed(logger, reg.Name(), "remote metadata provider failed", err)
			continue
		}
		if found != nil && meta.FillMissing(*found) {
			kind |= media.UpdateMetadataDownload
		}
	}
	return kind
}

// refreshImages downloads the first remote image of each type the item does
// not already have and returns how many were saved.
func (s *Service) refreshImages(ctx context.Context, logger *slog.Logger, item media.Item, opts provider.RefreshOptions) int64 {
	present := map[media.ImageType]bool{}
	if !opts.ReplaceAllImages {
		for _, reg := range s.engine.GetImageProviders(ctx, item) {
			if reg.LocalImages == nil {
				continue
			}
			images, err := safelyList(func() ([]media.LocalImageInfo, error) { return reg.LocalImages.GetImages(item) })
			if err != nil {
				s.providerFailed(logger, reg.Name(), "local image provider failed", err)
				continue
			}
			for _, image := range images {
				present[image.Type] = true
			}
		}
	}

	remote, err := s.engine.GetAvailableRemoteImages(ctx, item, dispatch.RemoteImageQuery{Language: opts.Language})
	if err != nil {
		logging.WarnWithContext(logger, "remote image lookup failed", "refresh_images_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "artwork was not refreshed"),
		)
		return 0
	}
	var chosen []media.RemoteImageInfo
	for _, image := range remote {
		if image.Type == "" || present[image.Type] {
			continue
		}
		present[image.Type] = true
		chosen = append(chosen, image)
	}
	if len(chosen) == 0 {
		return 0
	}

	pool := semaphore.NewWeighted(s.images)
	var saved atomic.Int64
	var group errgroup.Group
	for _, image := range chosen {
		group.Go(func() error {
			if err := s.engine.SaveImage(ctx, item, image.URL, pool, image.Type, 0); err != nil {
				logging.WarnWithContext(logger, "image download failed", "refresh_image_save_failed",
					logging.String(logging.FieldProvider, image.ProviderName),
					logging.String("image_type", string(image.Type)),
					logging.Error(err),
					logging.String(logging.FieldImpact, "item keeps its previous artwork"),
				)
				return nil
			}
			saved.Add(1)
			return nil
		})
	}
	_ = group.Wait()
	return saved.Load()
}

func (s *Service) providerFailed(logger *slog.Logger, name, msg string, err error) {
	logging.WarnWithContext(logger, msg, "refresh_provider_failed",
		logging.String(logging.FieldProvider, name),
		logging.Error(err),
		logging.String(logging.FieldImpact, "fields from this provider were skipped"),
	)
}

// safely runs a metadata lookup and converts a panic into an error. It
// returns nil metadata when the provider found nothing.
func safely(fn func() (media.Metadata, bool, error)) (found *media.Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			found, err = nil, fmt.Errorf("provider panicked: %v", r)
		}
	}()
	meta, ok, err := fn()
	if err != nil || !ok {
		return nil, err
	}
	return &meta, nil
}

func safelyList[T any](fn func() ([]T, error)) (out []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("provider panicked: %v", r)
		}
	}()
	return fn()
}
