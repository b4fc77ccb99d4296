package librarymonitor

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"curator/internal/logging"
)

// DefaultGrace is how long a path remains ignored after its last write.
const DefaultGrace = 2 * time.Second

// Monitor is a reference-counted set of ignored paths.
type Monitor struct {
	mu       sync.Mutex
	active   map[string]int
	finished map[string]time.Time
	grace    time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// New constructs a Monitor. A non-positive grace uses DefaultGrace.
func New(grace time.Duration, logger *slog.Logger) *Monitor {
	if grace <= 0 {
		grace = DefaultGrace
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Monitor{
		active:   make(map[string]int),
		finished: make(map[string]time.Time),
		grace:    grace,
		now:      time.Now,
		logger:   logging.NewComponentLogger(logger, "librarymonitor"),
	}
}

// ReportChangeBeginning marks path as being written.
func (m *Monitor) ReportChangeBeginning(path string) {
	key := clean(path)
	if key == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[key]++
	delete(m.finished, key)
	m.logger.Debug("ignoring library path", logging.String(logging.FieldPath, key))
}

// ReportChangeComplete marks one write to path as finished.
func (m *Monitor) ReportChangeComplete(path string, isDirectory bool) {
	key := clean(path)
	if key == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.pruneFinished(now)
	count := m.active[key]
	if count <= 1 {
		delete(m.active, key)
		m.finished[key] = now
	} else {
		m.active[key] = count - 1
	}
	m.logger.Debug("library path write complete",
		logging.String(logging.FieldPath, key),
		logging.Bool("directory", isDirectory),
	)
}

// IsIgnored reports whether change events for path should be dropped.
func (m *Monitor) IsIgnored(path string) bool {
	key := clean(path)
	if key == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active[key] > 0 {
		return true
	}
	finishedAt, ok := m.finished[key]
	if !ok {
		return false
	}
	if m.now().Sub(finishedAt) < m.grace {
		return true
	}
	delete(m.finished, key)
	return false
}

// Active returns how many writers currently hold path.
func (m *Monitor) Active(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[clean(path)]
}

// pruneFinished drops paths whose grace window has elapsed. Callers hold mu.
func (m *Monitor) pruneFinished(now time.Time) {
	for key, finishedAt := range m.finished {
		if now.Sub(finishedAt) >= m.grace {
			delete(m.finished, key)
		}
	}
}

func clean(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
