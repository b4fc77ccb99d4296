package dispatch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/media"
	"curator/internal/provider"
	"curator/internal/services"
)

// SaveMetadata runs every saver enabled for item and kind, one at a time.
// File-backed savers hold the path lock for their target while they write.
// Saver failures are logged and skipped; only invalid input and
// cancellation are returned.
func (m *Manager) SaveMetadata(ctx context.Context, item media.Item, kind media.UpdateKind) error {
	if item == nil {
		return services.Wrap(services.ErrValidation, "dispatch", "save metadata", "item is required", nil)
	}
	switch item.LocationType() {
	case media.LocationRemote, media.LocationVirtual:
		return services.Wrap(services.ErrValidation, "dispatch", "save metadata",
			fmt.Sprintf("only file-system items can save metadata (location %s)", item.LocationType()), nil)
	}
	options := m.GetMetadataOptions(item)
	logger := m.log(ctx)

	for _, saver := range m.savers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !m.isSaverEnabled(ctx, saver, item, kind, options, false) {
			continue
		}
		logger.Debug("saving metadata",
			logging.String(logging.FieldProvider, saver.Name()),
			logging.String(logging.FieldItemType, string(item.Type())),
			logging.String(logging.FieldPath, item.Path()),
		)
		if !saver.IsFileBacked() {
			if err := invokeErr(func() error { return saver.Saver.Save(ctx, item) }); err != nil {
				m.pluginFailure(ctx, "saver_failed", "error in metadata saver", saver.Name(), item, err)
			}
			continue
		}
		if err := m.runFileSaver(ctx, saver, item); err != nil {
			return err
		}
	}
	return nil
}

// runFileSaver resolves the saver's path and runs it under the path lock.
// Only lock acquisition errors are returned.
func (m *Manager) runFileSaver(ctx context.Context, saver provider.SaverRegistration, item media.Item) error {
	res := invoke(func() (string, error) { return saver.File.SavePath(item) })
	if !res.ok() {
		m.pluginFailure(ctx, "saver_path_failed", "error determining metadata save path", saver.Name(), item, res.err)
		return nil
	}
	path := strings.TrimSpace(res.value)
	if path == "" {
		m.pluginFailure(ctx, "saver_path_failed", "metadata saver returned an empty save path", saver.Name(), item,
			services.Wrap(services.ErrValidation, "dispatch", "save metadata", "empty save path", nil))
		return nil
	}

	release, err := m.locks.Acquire(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.pluginFailure(ctx, "saver_lock_failed", "unable to lock metadata save path", saver.Name(), item, err)
		return nil
	}
	defer release()

	m.notifier.ReportChangeBeginning(path)
	defer m.notifier.ReportChangeComplete(path, false)

	if err := invokeErr(func() error { return saver.Saver.Save(ctx, item) }); err != nil {
		m.pluginFailure(ctx, "saver_failed", "error in metadata saver", saver.Name(), item,
			fmt.Errorf("%s: %w", path, err))
	}
	return nil
}

func (m *Manager) isSaverEnabled(ctx context.Context, saver provider.SaverRegistration, item media.Item, kind media.UpdateKind, options config.MetadataOptions, includeDisabled bool) bool {
	if !includeDisabled && options.SaverDisabled(saver.Name()) {
		return false
	}
	res := invoke(func() (bool, error) { return saver.Saver.IsEnabledFor(item, kind) })
	if !res.ok() {
		m.pluginFailure(ctx, "saver_enabled_failed", "error in IsEnabledFor", saver.Name(), item, res.err)
		return false
	}
	return res.value
}

// SaveToLibraryFilesystem writes body to path inside the library. The write
// holds the path lock and is announced to the change notifier. body is
// always closed.
func (m *Manager) SaveToLibraryFilesystem(ctx context.Context, item media.Item, path string, body io.ReadCloser) error {
	if body == nil {
		return services.Wrap(services.ErrValidation, "dispatch", "save to library", "stream is required", nil)
	}
	defer body.Close()
	if item == nil {
		return services.Wrap(services.ErrValidation, "dispatch", "save to library", "item is required", nil)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return services.Wrap(services.ErrValidation, "dispatch", "save to library", "path is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	release, err := m.locks.Acquire(ctx, path)
	if err != nil {
		return err
	}
	defer release()
	if err := ctx.Err(); err != nil {
		return err
	}

	m.notifier.ReportChangeBeginning(path)
	defer m.notifier.ReportChangeComplete(path, false)

	if seeker, ok := body.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind stream: %w", err)
		}
	}
	if err := m.writer.WriteStream(ctx, path, body); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	m.log(ctx).Debug("saved file to library",
		logging.String(logging.FieldPath, path),
		logging.String(logging.FieldItemType, string(item.Type())),
	)
	return nil
}
