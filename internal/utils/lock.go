package utils

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

const (
	lockFileSuffix = ".lock"
)

// ConfigLock manages a file-based lock for the project config file, so that
// two canscope processes mutating the config at the same time don't clobber
// each other's writes.
type ConfigLock struct {
	lock *flock.Flock
	path string
}

// NewConfigLock creates a new lock guarding the given config path.
func NewConfigLock(configPath string) *ConfigLock {
	lockPath := configPath + lockFileSuffix
	return &ConfigLock{
		lock: flock.New(lockPath),
		path: lockPath,
	}
}

// Lock acquires the config lock, waiting if necessary.
// It will print a message if it has to wait.
func (l *ConfigLock) Lock() error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}

	if !locked {
		fmt.Fprintf(os.Stderr, "Another canscope process is writing to the config, waiting for it to finish...\n")
		if err := l.lock.Lock(); err != nil {
			return fmt.Errorf("failed to acquire lock on %s after waiting: %w", l.path, err)
		}
	}
	return nil
}

// Unlock releases the config lock.
func (l *ConfigLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		// Suppress error if the lock file doesn't exist, as it means we don't hold the lock.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
