// Package devicelock serializes murmur batches that share one accelerator.
package devicelock

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"murmur/internal/logging"
)

// DefaultRetryDelay is how often a waiting batch re-checks the lock.
const DefaultRetryDelay = 500 * time.Millisecond

// Lock is an advisory file lock held for the duration of a batch.
type Lock struct {
	path       string
	lock       *flock.Flock
	logger     *slog.Logger
	retryDelay time.Duration
}

// New prepares a lock at path. Nothing is acquired until Acquire.
func New(path string, logger *slog.Logger) *Lock {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Lock{
		path:       path,
		lock:       flock.New(path),
		logger:     logging.NewComponentLogger(logger, "devicelock"),
		retryDelay: DefaultRetryDelay,
	}
}

// SetRetryDelay adjusts the polling interval used while waiting.
func (l *Lock) SetRetryDelay(delay time.Duration) {
	if delay > 0 {
		l.retryDelay = delay
	}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire blocks until the lock is held or ctx ends. Another batch holding
// the lock makes this one wait rather than fail.
func (l *Lock) Acquire(ctx context.Context) error {
	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure lock dir: %w", err)
		}
	}

	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire device lock: %w", err)
	}
	if ok {
		l.logger.Debug("device lock acquired", logging.String("lock", l.path))
		return nil
	}

	l.logger.Info("waiting for another murmur batch to release the device",
		logging.String("lock", l.path),
		logging.String(logging.FieldEventType, "device_lock_wait"),
	)
	started := time.Now()
	ok, err = l.lock.TryLockContext(ctx, l.retryDelay)
	if err != nil {
		return fmt.Errorf("acquire device lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("acquire device lock: %s not acquired", l.path)
	}
	l.logger.Info("device lock acquired",
		logging.String("lock", l.path),
		logging.Duration("waited", time.Since(started)),
	)
	return nil
}

// Release frees the lock. Releasing a lock that is not held is a no-op.
func (l *Lock) Release() error {
	if !l.lock.Locked() {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release device lock: %w", err)
	}
	return nil
}
