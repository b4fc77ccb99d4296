package pathlock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/semaphore"

	"curator/internal/logging"
)

const defaultRetryDelay = 50 * time.Millisecond

// ErrEmptyPath is returned when a lock is requested for an empty path.
var ErrEmptyPath = errors.New("pathlock: empty path")

// Options configures a Registry.
type Options struct {
	// LockDir enables cross-process locking when non-empty.
	LockDir string
	// RetryDelay is the poll interval while waiting on a cross-process lock.
	RetryDelay time.Duration
	Logger     *slog.Logger
}

// Registry maps normalized paths to their locks.
type Registry struct {
	mu         sync.Mutex
	locks      map[string]*entry
	lockDir    string
	retryDelay time.Duration
	logger     *slog.Logger
}

type entry struct {
	sem  *semaphore.Weighted
	file *flock.Flock
}

// New constructs an empty Registry.
func New(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	retry := opts.RetryDelay
	if retry <= 0 {
		retry = defaultRetryDelay
	}
	return &Registry{
		locks:      make(map[string]*entry),
		lockDir:    strings.TrimSpace(opts.LockDir),
		retryDelay: retry,
		logger:     logging.NewComponentLogger(logger, "pathlock"),
	}
}

// Normalize returns the key a path is locked under.
func Normalize(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", ErrEmptyPath
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("pathlock: resolve %q: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// Acquire blocks until the lock for path is held or ctx is done. Waiters on
// the same path are admitted in arrival order. The returned release func is
// safe to call more than once.
func (r *Registry) Acquire(ctx context.Context, path string) (func(), error) {
	key, err := Normalize(path)
	if err != nil {
		return nil, err
	}
	e, err := r.entryFor(key)
	if err != nil {
		return nil, err
	}
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	if e.file != nil {
		locked, err := e.file.TryLockContext(ctx, r.retryDelay)
		if err != nil || !locked {
			e.sem.Release(1)
			if err == nil {
				err = fmt.Errorf("pathlock: lock file %s not acquired", e.file.Path())
			}
			return nil, err
		}
	}
	return sync.OnceFunc(func() {
		if e.file != nil {
			if err := e.file.Unlock(); err != nil {
				r.logger.Warn("failed to release lock file",
					logging.String(logging.FieldPath, key),
					logging.String("lock_file", e.file.Path()),
					logging.Error(err),
				)
			}
		}
		e.sem.Release(1)
	}), nil
}

// WithLock runs fn while holding the lock for path.
func (r *Registry) WithLock(ctx context.Context, path string, fn func() error) error {
	release, err := r.Acquire(ctx, path)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// Len reports how many distinct paths have been locked.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}

func (r *Registry) entryFor(key string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.locks[key]; ok {
		return e, nil
	}
	e := &entry{sem: semaphore.NewWeighted(1)}
	if r.lockDir != "" {
		if err := os.MkdirAll(r.lockDir, 0o755); err != nil {
			return nil, fmt.Errorf("pathlock: create lock dir: %w", err)
		}
		e.file = flock.New(filepath.Join(r.lockDir, lockFileName(key)))
	}
	r.locks[key] = e
	return e, nil
}

func lockFileName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16]) + ".lock"
}
