package dispatch

import (
	"context"

	"curator/internal/logging"
	"curator/internal/media"
	"curator/internal/provider"
	"curator/internal/services"
)

// RefreshMetadata hands item to the first registered service that accepts
// it. When none does, the miss is logged and nil is returned.
func (m *Manager) RefreshMetadata(ctx context.Context, item media.Item, opts provider.RefreshOptions) error {
	if item == nil {
		return services.Wrap(services.ErrValidation, "dispatch", "refresh metadata", "item is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = services.WithItemID(ctx, item.ID())
	for _, svc := range m.services {
		res := invoke(func() (bool, error) { return svc.CanRefresh(item), nil })
		if !res.ok() {
			m.pluginFailure(ctx, "service_can_refresh_failed", "metadata service failed in CanRefresh", svc.Name(), item, res.err)
			continue
		}
		if !res.value {
			continue
		}
		m.log(ctx).Debug("refreshing metadata",
			logging.String(logging.FieldProvider, svc.Name()),
			logging.String(logging.FieldItemType, string(item.Type())),
		)
		return svc.RefreshMetadata(ctx, item, opts)
	}
	logging.ErrorWithContext(m.log(ctx), "unable to find a metadata service for item", "metadata_service_missing",
		logging.String(logging.FieldItemType, string(item.Type())),
		logging.String(logging.FieldPath, item.Path()),
		logging.Error(services.Wrap(services.ErrNotFound, "dispatch", "refresh metadata", "no metadata service", nil)),
		logging.String(logging.FieldErrorHint, "register a metadata service that accepts this item type"),
	)
	return nil
}

// GetMetadataProviders returns the eligible metadata providers for item in
// dispatch order.
func (m *Manager) GetMetadataProviders(ctx context.Context, item media.Item) []provider.Registration {
	if item == nil {
		return nil
	}
	return m.metadataProvidersFor(ctx, item, m.newSelection(item, false))
}

func (m *Manager) metadataProvidersFor(ctx context.Context, item media.Item, sel selection) []provider.Registration {
	var eligible []provider.Registration
	for _, reg := range m.metadataProviders {
		if m.canRefreshMetadata(ctx, reg, item, sel) {
			eligible = append(eligible, reg)
		}
	}
	return orderProviders(eligible, sel.options.MetadataFetcherIndex)
}
