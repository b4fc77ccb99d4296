package dispatch

import (
	"context"
	"log/slog"

	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/media"
	"curator/internal/provider"
)

// selection carries the per-request inputs to the capability filter.
type selection struct {
	snapshot        config.Snapshot
	options         config.MetadataOptions
	includeDisabled bool
}

func (m *Manager) newSelection(item media.Item, includeDisabled bool) selection {
	snapshot := m.config.CurrentOptions()
	return selection{
		snapshot:        snapshot,
		options:         resolveOptions(snapshot, item),
		includeDisabled: includeDisabled,
	}
}

// remoteAllowed applies the internet switch and the category disable list.
func (s selection) remoteAllowed(reg provider.Registration, disabled func(string) bool) bool {
	if s.includeDisabled || !reg.Caps.Has(provider.Remote) {
		return true
	}
	if !s.snapshot.EnableInternetProviders {
		return false
	}
	return !disabled(reg.Name())
}

func (m *Manager) canRefreshImages(ctx context.Context, reg provider.Registration, item media.Item, sel selection) bool {
	if !sel.remoteAllowed(reg, sel.options.ImageFetcherDisabled) {
		return false
	}
	if !item.SupportsLocalMetadata() && reg.Caps.Has(provider.Local) {
		return false
	}
	res := invoke(func() (bool, error) { return reg.Image.Supports(item) })
	if !res.ok() {
		m.pluginFailure(ctx, "provider_supports_failed", "image provider failed in Supports", reg.Name(), item, res.err)
		return false
	}
	return res.value
}

func (m *Manager) canRefreshMetadata(ctx context.Context, reg provider.Registration, item media.Item, sel selection) bool {
	if !sel.remoteAllowed(reg, sel.options.MetadataFetcherDisabled) {
		return false
	}
	if !item.SupportsLocalMetadata() && reg.Caps.Has(provider.Local) {
		return false
	}
	if item.IsOwnedItem() && (reg.Caps.Has(provider.Local) || reg.Caps.Has(provider.Remote)) {
		return false
	}
	res := invoke(func() (bool, error) { return reg.MetadataSource.SupportsType(item.Type()), nil })
	if !res.ok() {
		m.pluginFailure(ctx, "provider_supports_failed", "metadata provider failed in SupportsType", reg.Name(), item, res.err)
		return false
	}
	return res.value
}

// pluginFailure logs an isolated plugin error with provider and item context.
func (m *Manager) pluginFailure(ctx context.Context, eventType, msg, name string, item media.Item, err error) {
	attrs := []logging.Attr{
		logging.String(logging.FieldProvider, name),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "the plugin was skipped; check its configuration or upstream service"),
	}
	if item != nil {
		attrs = append(attrs, logging.String(logging.FieldItemType, string(item.Type())))
	}
	logging.ErrorWithContext(m.log(ctx), msg, eventType, attrs...)
}

func (m *Manager) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, m.logger)
}
