package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// lockFileName is the advisory lock under the journal directory.
const lockFileName = "run.lock"

// LockHeldError means another run holds the journal lock.
type LockHeldError struct {
	Path string
	// Holder is the contents of the lock file, normally the pid of the
	// process that took it.
	Holder string
}

func (e *LockHeldError) Error() string {
	return fmt.Sprintf("another run is in progress (lock %s held by %s); remove the file if that run is dead",
		e.Path, e.Holder)
}

// Lock is an advisory cross-process lock guarding a whole provisioning
// run. Two concurrent runs would interleave backups and journal writes.
type Lock struct {
	path string
}

// Acquire takes the run lock in dir, creating dir if needed. A lock file
// that already exists means another run is in progress.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	path := filepath.Join(dir, lockFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, &LockHeldError{Path: path, Holder: readHolder(path)}
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	fmt.Fprintf(file, "%d\n", os.Getpid())
	if err := file.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write lock file: %w", err)
	}

	return &Lock{path: path}, nil
}

// Release removes the lock file. Safe to call once per Acquire.
func (l *Lock) Release() error {
	return os.Remove(l.path)
}

func readHolder(path string) string {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return "unknown pid"
	}
	return "pid " + strings.TrimSpace(string(data))
}
