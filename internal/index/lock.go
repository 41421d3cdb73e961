package index

import (
	"fmt"
	"os"
	"path/filepath"
)

// Lock is an exclusive, advisory lock on a workspace cache, held while the
// cache is rebuilt.
type Lock struct {
	file *os.File
}

// AcquireLock takes the rebuild lock of a workspace without waiting.
// It returns ErrIndexLocked when another process holds it.
func AcquireLock(workspace string) (*Lock, error) {
	dir := filepath.Join(workspace, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "index.lock"), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open index lock: %w", err)
	}

	if err := tryLock(f); err != nil {
		f.Close()
		if wouldBlock(err) {
			return nil, ErrIndexLocked
		}
		return nil, fmt.Errorf("failed to acquire index lock: %w", err)
	}

	return &Lock{file: f}, nil
}

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlock(l.file)
	closeErr := l.file.Close()
	l.file = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
