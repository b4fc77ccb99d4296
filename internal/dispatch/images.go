package dispatch

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"curator/internal/fetch"
	"curator/internal/language"
	"curator/internal/logging"
	"curator/internal/media"
	"curator/internal/provider"
	"curator/internal/services"
)

// RemoteImageQuery narrows a remote image lookup.
type RemoteImageQuery struct {
	// ProviderName limits the lookup to one provider (case-insensitive).
	ProviderName string
	// ImageType limits results to one kind of artwork.
	ImageType media.ImageType
	// Language overrides the item's preferred metadata language.
	Language string
	// IncludeAllLanguages disables language filtering.
	IncludeAllLanguages bool
	// IncludeDisabledProviders ignores the internet switch and disable lists.
	IncludeDisabledProviders bool
}

// GetImageProviders returns the eligible image providers for item in
// dispatch order.
func (m *Manager) GetImageProviders(ctx context.Context, item media.Item) []provider.Registration {
	if item == nil {
		return nil
	}
	return m.imageProvidersFor(ctx, item, m.newSelection(item, false))
}

// GetRemoteImageProviderInfo reports each eligible remote provider with the
// image types it can supply for item.
func (m *Manager) GetRemoteImageProviderInfo(ctx context.Context, item media.Item) []media.ImageProviderInfo {
	if item == nil {
		return nil
	}
	var infos []media.ImageProviderInfo
	for _, reg := range m.remoteImageProvidersFor(ctx, item, m.newSelection(item, false)) {
		infos = append(infos, media.ImageProviderInfo{
			Name:            reg.Name(),
			SupportedImages: m.supportedImages(ctx, reg, item),
		})
	}
	return infos
}

// GetAvailableRemoteImages queries every eligible remote image provider
// concurrently and merges their results in provider order. A failing
// provider contributes nothing.
func (m *Manager) GetAvailableRemoteImages(ctx context.Context, item media.Item, query RemoteImageQuery) ([]media.RemoteImageInfo, error) {
	if item == nil {
		return nil, services.Wrap(services.ErrValidation, "dispatch", "remote images", "item is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sel := m.newSelection(item, query.IncludeDisabledProviders)
	providers := m.remoteImageProvidersFor(ctx, item, sel)
	if name := strings.TrimSpace(query.ProviderName); name != "" {
		providers = slices.DeleteFunc(providers, func(reg provider.Registration) bool {
			return !strings.EqualFold(reg.Name(), name)
		})
	}
	if len(providers) == 0 {
		m.log(ctx).Debug("no remote image providers for item",
			logging.String(logging.FieldItemType, string(item.Type())),
			logging.String("provider_filter", query.ProviderName),
		)
		return nil, nil
	}

	lang := effectiveLanguage(item, query, sel)
	results := make([][]media.RemoteImageInfo, len(providers))
	var group errgroup.Group
	for i, reg := range providers {
		group.Go(func() error {
			results[i] = m.fetchProviderImages(ctx, reg, item, query.ImageType, lang)
			return nil
		})
	}
	_ = group.Wait()

	var merged []media.RemoteImageInfo
	for _, images := range results {
		merged = append(merged, images...)
	}
	return merged, nil
}

// effectiveLanguage picks the language used to filter remote results. An
// empty value disables filtering.
func effectiveLanguage(item media.Item, query RemoteImageQuery, sel selection) string {
	if query.IncludeAllLanguages {
		return ""
	}
	if lang := strings.TrimSpace(query.Language); lang != "" {
		return lang
	}
	if lang := strings.TrimSpace(item.PreferredMetadataLanguage()); lang != "" {
		return lang
	}
	return strings.TrimSpace(sel.snapshot.PreferredMetadataLanguage)
}

func (m *Manager) fetchProviderImages(ctx context.Context, reg provider.Registration, item media.Item, imageType media.ImageType, lang string) []media.RemoteImageInfo {
	res := invoke(func() ([]media.RemoteImageInfo, error) {
		return reg.RemoteImages.GetImages(ctx, item)
	})
	if !res.ok() {
		m.pluginFailure(ctx, "remote_images_failed",
			fmt.Sprintf("%s failed in GetImages for type %s", reg.Name(), item.Type()),
			reg.Name(), item, res.err)
		return nil
	}
	images := make([]media.RemoteImageInfo, 0, len(res.value))
	for _, image := range res.value {
		if image.ProviderName == "" {
			image.ProviderName = reg.Name()
		}
		images = append(images, image)
	}
	if imageType != "" {
		images = slices.DeleteFunc(images, func(image media.RemoteImageInfo) bool {
			return image.Type != imageType
		})
		if len(images) == 0 && len(res.value) > 0 {
			m.log(ctx).Debug("provider returned no images of requested type",
				logging.String(logging.FieldProvider, reg.Name()),
				logging.String("image_type", string(imageType)),
			)
		}
	}
	return filterLanguage(images, lang)
}

// filterLanguage keeps untagged and English images when lang is English.
// Other languages pass through unfiltered.
func filterLanguage(images []media.RemoteImageInfo, lang string) []media.RemoteImageInfo {
	if !language.IsEnglish(lang) {
		return images
	}
	return slices.DeleteFunc(images, func(image media.RemoteImageInfo) bool {
		tag := strings.TrimSpace(image.Language)
		return tag != "" && !language.IsEnglish(tag)
	})
}

func (m *Manager) imageProvidersFor(ctx context.Context, item media.Item, sel selection) []provider.Registration {
	var eligible []provider.Registration
	for _, reg := range m.imageProviders {
		if m.canRefreshImages(ctx, reg, item, sel) {
			eligible = append(eligible, reg)
		}
	}
	return orderProviders(eligible, sel.options.ImageFetcherIndex)
}

func (m *Manager) remoteImageProvidersFor(ctx context.Context, item media.Item, sel selection) []provider.Registration {
	return slices.DeleteFunc(m.imageProvidersFor(ctx, item, sel), func(reg provider.Registration) bool {
		return reg.RemoteImages == nil
	})
}

func (m *Manager) supportedImages(ctx context.Context, reg provider.Registration, item media.Item) []media.ImageType {
	if reg.ImageKinds == nil {
		return nil
	}
	res := invoke(func() ([]media.ImageType, error) {
		return reg.ImageKinds.SupportedImages(item), nil
	})
	if !res.ok() {
		m.pluginFailure(ctx, "provider_supported_images_failed", "image provider failed in SupportedImages", reg.Name(), item, res.err)
		return nil
	}
	return res.value
}

// SaveImage downloads url and stores it as the item's image of the given
// type and index. pool, when set, bounds concurrency across a batch.
func (m *Manager) SaveImage(ctx context.Context, item media.Item, url string, pool *semaphore.Weighted, imageType media.ImageType, index int) error {
	if item == nil {
		return services.Wrap(services.ErrValidation, "dispatch", "save image", "item is required", nil)
	}
	if strings.TrimSpace(url) == "" {
		return services.Wrap(services.ErrValidation, "dispatch", "save image", "url is required", nil)
	}
	if m.fetcher == nil {
		return services.Wrap(services.ErrConfiguration, "dispatch", "save image", "no fetcher configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	resp, err := m.fetcher.Fetch(ctx, fetch.Request{URL: url, Pool: pool, Accept: "image/*"})
	if err != nil {
		return fmt.Errorf("download image: %w", err)
	}
	return m.SaveImageStream(ctx, item, resp.Body, resp.ContentType, imageType, index)
}

// SaveImageStream stores body as the item's image of the given type and
// index. body is always closed.
func (m *Manager) SaveImageStream(ctx context.Context, item media.Item, body io.ReadCloser, mimeType string, imageType media.ImageType, index int) error {
	if body == nil {
		return services.Wrap(services.ErrValidation, "dispatch", "save image", "stream is required", nil)
	}
	if item == nil {
		body.Close()
		return services.Wrap(services.ErrValidation, "dispatch", "save image", "item is required", nil)
	}
	if imageType == "" {
		body.Close()
		return services.Wrap(services.ErrValidation, "dispatch", "save image", "image type is required", nil)
	}
	if m.imageSaver == nil {
		body.Close()
		return services.Wrap(services.ErrConfiguration, "dispatch", "save image", "no image saver configured", nil)
	}
	return m.imageSaver.SaveImage(ctx, item, body, mimeType, imageType, index)
}
