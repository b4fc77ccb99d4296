package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"curator/internal/config"
	"curator/internal/fetch"
	"curator/internal/logging"
	"curator/internal/media"
	"curator/internal/services"
)

const maxManifestBytes = 4 << 20

var defaultImageTypes = []media.ImageType{media.ImagePrimary, media.ImageBackdrop}

// Provider serves remote images listed by one manifest source.
type Provider struct {
	name        string
	order       int
	urlTemplate string
	itemTypes   []media.ItemType
	imageTypes  []media.ImageType
	fetcher     fetch.Fetcher
	logger      *slog.Logger
}

type document struct {
	Images []entry `json:"images"`
}

type entry struct {
	URL             string  `json:"url"`
	ThumbnailURL    string  `json:"thumbnail_url"`
	Type            string  `json:"type"`
	Language        string  `json:"language"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	CommunityRating float64 `json:"rating"`
	VoteCount       int     `json:"vote_count"`
}

// New builds a Provider from a configured manifest source.
func New(src config.ManifestSource, fetcher fetch.Fetcher, logger *slog.Logger) (*Provider, error) {
	if fetcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "manifest", "new", "fetcher is required", nil)
	}
	name := strings.TrimSpace(src.Name)
	if name == "" {
		return nil, services.Wrap(services.ErrConfiguration, "manifest", "new", "name is required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Provider{
		name:        name,
		order:       src.Order,
		urlTemplate: strings.TrimSpace(src.URLTemplate),
		fetcher:     fetcher,
		logger:      logging.NewComponentLogger(logger, "manifest").With(logging.String(logging.FieldProvider, name)),
	}
	for _, raw := range src.ItemTypes {
		t, err := media.ParseItemType(raw)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "manifest", "new", name, err)
		}
		p.itemTypes = append(p.itemTypes, t)
	}
	for _, raw := range src.ImageTypes {
		t, err := media.ParseImageType(raw)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "manifest", "new", name, err)
		}
		p.imageTypes = append(p.imageTypes, t)
	}
	if len(p.imageTypes) == 0 {
		p.imageTypes = slices.Clone(defaultImageTypes)
	}
	return p, nil
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) Order() int { return p.order }

// Supports accepts named items of the configured types.
func (p *Provider) Supports(item media.Item) (bool, error) {
	if item == nil || strings.TrimSpace(item.Name()) == "" {
		return false, nil
	}
	if len(p.itemTypes) == 0 {
		return true, nil
	}
	return slices.Contains(p.itemTypes, item.Type()) || slices.Contains(p.itemTypes, item.Type().OptionsType()), nil
}

// SupportedImages returns the configured image types.
func (p *Provider) SupportedImages(media.Item) []media.ImageType {
	return slices.Clone(p.imageTypes)
}

// GetImages fetches and decodes the manifest for item.
func (p *Provider) GetImages(ctx context.Context, item media.Item) ([]media.RemoteImageInfo, error) {
	target := p.expand(item)
	resp, err := p.fetcher.Fetch(ctx, fetch.Request{URL: target, Accept: "application/json"})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var doc document
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxManifestBytes)).Decode(&doc); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "manifest", "decode", p.name, err)
	}

	images := make([]media.RemoteImageInfo, 0, len(doc.Images))
	for _, e := range doc.Images {
		if strings.TrimSpace(e.URL) == "" {
			continue
		}
		imageType, err := media.ParseImageType(e.Type)
		if err != nil {
			p.logger.Debug("skipping manifest entry with unknown image type",
				logging.String("image_type", e.Type))
			continue
		}
		if !slices.Contains(p.imageTypes, imageType) {
			continue
		}
		images = append(images, media.RemoteImageInfo{
			ProviderName:    p.name,
			URL:             resolveURL(target, e.URL),
			ThumbnailURL:    resolveURL(target, e.ThumbnailURL),
			Type:            imageType,
			Language:        strings.TrimSpace(e.Language),
			Width:           e.Width,
			Height:          e.Height,
			CommunityRating: e.CommunityRating,
			VoteCount:       e.VoteCount,
		})
	}
	p.logger.Debug("manifest images loaded",
		logging.String(logging.FieldItemType, string(item.Type())),
		logging.Int("images", len(images)),
	)
	return images, nil
}

func (p *Provider) expand(item media.Item) string {
	year := ""
	if meta := media.MetadataOf(item); meta != nil && meta.ProductionYear > 0 {
		year = strconv.Itoa(meta.ProductionYear)
	}
	return strings.NewReplacer(
		"{type}", url.PathEscape(strings.ToLower(string(item.Type()))),
		"{name}", url.PathEscape(item.Name()),
		"{year}", year,
	).Replace(p.urlTemplate)
}

// resolveURL makes ref absolute relative to the manifest location.
func resolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	parsedRef, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if parsedRef.IsAbs() {
		return ref
	}
	parsedBase, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return parsedBase.ResolveReference(parsedRef).String()
}

func (p *Provider) String() string {
	return fmt.Sprintf("manifest(%s)", p.name)
}
