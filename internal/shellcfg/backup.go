package shellcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// backupStampFormat names one backup directory per run, e.g.
// ~/.config-backups/20240131_154500/.
const backupStampFormat = "20060102_150405"

// BackupSet owns the per-run backup directory. The timestamp is fixed when
// the set is created, so every snapshot taken during a run lands in the
// same directory. The directory itself is created lazily on the first
// snapshot; a run that mutates nothing leaves no directory behind.
type BackupSet struct {
	root    string
	stamp   string
	created bool
}

// NewBackupSet creates a backup set rooted at root, stamped with now.
func NewBackupSet(root string, now time.Time) *BackupSet {
	return &BackupSet{
		root:  root,
		stamp: now.Format(backupStampFormat),
	}
}

// Dir returns the backup directory path for this run. The directory may
// not exist yet.
func (b *BackupSet) Dir() string {
	return filepath.Join(b.root, b.stamp)
}

// Snapshot copies the current contents of path into this run's backup
// directory under the file's base name, creating the directory on first
// use. A second snapshot of a file with the same base name silently
// overwrites the first; the directory is timestamped per run, not per file.
// Returns the backup file path.
func (b *BackupSet) Snapshot(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if !b.created {
		if err := os.MkdirAll(b.Dir(), 0o755); err != nil {
			return "", fmt.Errorf("create backup directory: %w", err)
		}
		b.created = true
	}

	backupPath := filepath.Join(b.Dir(), filepath.Base(path))
	if err := os.WriteFile(backupPath, content, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	return backupPath, nil
}
