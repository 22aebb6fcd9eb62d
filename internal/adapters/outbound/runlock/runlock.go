package runlock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/abdidvp/contentmod/internal/domain"
)

// FileName is the lock file created next to an fs content root.
const FileName = ".contentmod.lock"

// FileLocker implements domain.RunLocker with an advisory file lock, so two
// processes never run against the same repository at once.
type FileLocker struct {
	path string
}

func New(path string) *FileLocker {
	return &FileLocker{path: path}
}

// ForRoot returns the locker guarding an fs content root.
func ForRoot(root string) *FileLocker {
	return New(filepath.Join(root, FileName))
}

// ForDSN returns the locker guarding a sqlite database file.
func ForDSN(dsn string) *FileLocker {
	return New(dsn + ".lock")
}

// Path returns the lock file path.
func (l *FileLocker) Path() string { return l.path }

// Lock never waits: a lock held elsewhere yields domain.ErrRunInProgress.
func (l *FileLocker) Lock(ctx context.Context) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	fl := flock.New(l.path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring %s: %w", l.path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", l.path, domain.ErrRunInProgress)
	}
	return fl.Unlock, nil
}
