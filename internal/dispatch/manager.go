package dispatch

import (
	"errors"
	"log/slog"
	"sort"

	"curator/internal/logging"
	"curator/internal/pathlock"
	"curator/internal/provider"
)

// Deps are the collaborators a Manager consumes.
type Deps struct {
	Config   ConfigSource
	Notifier ChangeNotifier
	Writer   StreamWriter
	Fetcher  Fetcher
	Locks    *pathlock.Registry
	Logger   *slog.Logger
}

// Parts are the plugins registered with a Manager.
type Parts struct {
	ImageProviders    []provider.Registration
	MetadataProviders []provider.Registration
	Savers            []provider.SaverRegistration
	Services          []provider.MetadataService
}

// Manager dispatches refresh, image, and save requests to registered plugins.
// Register plugins with AddParts before serving requests; the registries are
// read-only afterwards and safe for concurrent use.
type Manager struct {
	config     ConfigSource
	notifier   ChangeNotifier
	writer     StreamWriter
	fetcher    Fetcher
	imageSaver ImageSaver
	locks      *pathlock.Registry
	logger     *slog.Logger

	imageProviders    []provider.Registration
	metadataProviders []provider.Registration
	savers            []provider.SaverRegistration
	services          []provider.MetadataService
}

// New constructs a Manager. Only Config is required.
func New(deps Deps) (*Manager, error) {
	if deps.Config == nil {
		return nil, errors.New("dispatch: config source is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "dispatch")
	m := &Manager{
		config:   deps.Config,
		notifier: deps.Notifier,
		writer:   deps.Writer,
		fetcher:  deps.Fetcher,
		locks:    deps.Locks,
		logger:   logger,
	}
	if m.notifier == nil {
		m.notifier = noopNotifier{}
	}
	if m.writer == nil {
		m.writer = defaultStreamWriter
	}
	if m.locks == nil {
		m.locks = pathlock.New(pathlock.Options{Logger: logger})
	}
	return m, nil
}

// AddParts registers plugins. Registration order is preserved and breaks
// ties between providers of equal priority.
func (m *Manager) AddParts(parts Parts) {
	for _, reg := range parts.ImageProviders {
		if reg.Image == nil || !reg.IsImage() {
			m.logger.Warn("skipping image provider registration without an image provider",
				logging.String("registration", reg.String()))
			continue
		}
		m.imageProviders = append(m.imageProviders, reg)
	}
	for _, reg := range parts.MetadataProviders {
		if reg.MetadataSource == nil || !reg.IsMetadata() {
			m.logger.Warn("skipping metadata provider registration without a metadata provider",
				logging.String("registration", reg.String()))
			continue
		}
		m.metadataProviders = append(m.metadataProviders, reg)
	}
	for _, saver := range parts.Savers {
		if saver.Saver == nil {
			continue
		}
		m.savers = append(m.savers, saver)
	}
	for _, svc := range parts.Services {
		if svc == nil {
			continue
		}
		m.services = append(m.services, svc)
	}
	sort.SliceStable(m.services, func(i, j int) bool {
		return m.services[i].Order() < m.services[j].Order()
	})
	m.logger.Debug("registered metadata plugins",
		logging.Int("image_providers", len(m.imageProviders)),
		logging.Int("metadata_providers", len(m.metadataProviders)),
		logging.Int("savers", len(m.savers)),
		logging.Int("services", len(m.services)),
	)
}

// SetImageSaver installs the collaborator used by SaveImage and
// SaveImageStream.
func (m *Manager) SetImageSaver(saver ImageSaver) {
	m.imageSaver = saver
}

// Locks exposes the manager's path lock registry.
func (m *Manager) Locks() *pathlock.Registry {
	return m.locks
}
