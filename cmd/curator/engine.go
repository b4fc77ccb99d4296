package main

import (
	"fmt"
	"log/slog"

	"curator/internal/config"
	"curator/internal/dispatch"
	"curator/internal/fetch"
	"curator/internal/imagesaver"
	"curator/internal/librarymonitor"
	"curator/internal/logging"
	"curator/internal/pathlock"
	"curator/internal/provider"
	"curator/internal/providers/localimages"
	"curator/internal/providers/manifest"
	"curator/internal/refresh"
	"curator/internal/savers/sidecar"
)

// engine bundles the dispatch manager with the collaborators commands need.
type engine struct {
	cfg     *config.Config
	manager *dispatch.Manager
}

func newEngine(cfg *config.Config, logger *slog.Logger) (*engine, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	lockOpts := pathlock.Options{Logger: logger}
	if cfg.Locking.CrossProcess {
		lockOpts.LockDir = cfg.Paths.LockDir
	}
	locks := pathlock.New(lockOpts)
	monitor := librarymonitor.New(librarymonitor.DefaultGrace, logger)
	fetcher := fetch.NewFromConfig(cfg, logger)

	manager, err := dispatch.New(dispatch.Deps{
		Config:   cfg,
		Notifier: monitor,
		Fetcher:  fetcher,
		Locks:    locks,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	manager.SetImageSaver(imagesaver.New(manager, logger))

	parts := dispatch.Parts{
		ImageProviders: []provider.Registration{
			provider.LocalImage(localimages.New()),
		},
		MetadataProviders: []provider.Registration{
			provider.LocalMetadata(sidecar.NewReader()),
		},
		Savers: []provider.SaverRegistration{
			provider.FileBackedSaver(sidecar.NewSaver(cfg.Savers.SidecarEnabled)),
		},
	}
	for _, src := range cfg.ManifestSources {
		p, err := manifest.New(src, fetcher, logger)
		if err != nil {
			return nil, fmt.Errorf("manifest source %q: %w", src.Name, err)
		}
		parts.ImageProviders = append(parts.ImageProviders, provider.RemoteImage(p))
	}
	parts.Services = []provider.MetadataService{
		refresh.New(manager, refresh.Options{
			ImageConcurrency: int64(cfg.Fetch.MaxConcurrent),
			Logger:           logger,
		}),
	}
	manager.AddParts(parts)

	return &engine{cfg: cfg, manager: manager}, nil
}
