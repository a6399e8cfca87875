package dotfiles

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/DustyPolk/dev-setup/internal/logging"
	"github.com/DustyPolk/dev-setup/internal/shellcfg"
)

// LinkSpec maps one file in the dotfiles repository to its place in the
// home directory. Both paths are relative.
type LinkSpec struct {
	// Source is the path inside the dotfiles repository.
	Source string
	// Target is the path under the home directory. Empty means the
	// source's basename at the top of the home directory.
	Target string
}

// LinkOutcome says what happened to one link target.
type LinkOutcome int

const (
	// LinkCreated means a new symlink was created.
	LinkCreated LinkOutcome = iota
	// LinkAlreadyCurrent means the symlink already pointed at the source.
	LinkAlreadyCurrent
	// LinkReplaced means an existing file was backed up and replaced.
	LinkReplaced
	// LinkFailed means the target could not be linked.
	LinkFailed
)

// String returns the human-readable outcome name
func (o LinkOutcome) String() string {
	switch o {
	case LinkCreated:
		return "created"
	case LinkAlreadyCurrent:
		return "already-current"
	case LinkReplaced:
		return "replaced"
	case LinkFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LinkResult describes the outcome for one link target.
type LinkResult struct {
	Source  string
	Target  string
	Outcome LinkOutcome
	// BackupPath is set when a pre-existing file was backed up.
	BackupPath string
	Err        error
}

// Linker symlinks dotfiles into the home directory. Files it would
// replace are snapshotted into the run's backup set first.
type Linker struct {
	home    string
	repoDir string
	backups *shellcfg.BackupSet
	log     zerolog.Logger
}

// NewLinker creates a linker for the given home directory and clone.
// The backup set is shared with the shell config updater so one run
// produces one backup directory.
func NewLinker(home, repoDir string, backups *shellcfg.BackupSet) (*Linker, error) {
	if home == "" {
		return nil, fmt.Errorf("home is required")
	}
	if repoDir == "" {
		return nil, fmt.Errorf("repoDir is required")
	}
	if backups == nil {
		return nil, fmt.Errorf("backups is required")
	}

	return &Linker{
		home:    home,
		repoDir: repoDir,
		backups: backups,
		log:     logging.GetLogger("dotfiles"),
	}, nil
}

// Link applies the given specs. Failures are recorded per target and do
// not stop the remaining links.
func (l *Linker) Link(specs []LinkSpec) []LinkResult {
	results := make([]LinkResult, 0, len(specs))
	for _, spec := range specs {
		result := l.linkOne(spec)

		event := l.log.Info()
		if result.Err != nil {
			event = l.log.Error().Err(result.Err)
		}
		event.
			Str("target", result.Target).
			Str("outcome", result.Outcome.String()).
			Msg("dotfile link")

		results = append(results, result)
	}
	return results
}

func (l *Linker) linkOne(spec LinkSpec) LinkResult {
	source := filepath.Join(l.repoDir, spec.Source)

	target := spec.Target
	if target == "" {
		target = filepath.Base(spec.Source)
	}
	target = filepath.Join(l.home, target)

	result := LinkResult{Source: source, Target: target}

	if _, err := os.Stat(source); err != nil {
		result.Outcome = LinkFailed
		result.Err = fmt.Errorf("source missing: %w", err)
		return result
	}

	// An existing symlink already pointing at the source is a no-op.
	if current, err := os.Readlink(target); err == nil && current == source {
		result.Outcome = LinkAlreadyCurrent
		return result
	}

	outcome := LinkCreated
	if info, err := os.Lstat(target); err == nil {
		// Regular files are snapshotted before being replaced; stale
		// symlinks are just removed.
		if info.Mode().IsRegular() {
			backupPath, err := l.backups.Snapshot(target)
			if err != nil {
				result.Outcome = LinkFailed
				result.Err = fmt.Errorf("backup %s: %w", target, err)
				return result
			}
			result.BackupPath = backupPath
		}
		if err := os.Remove(target); err != nil {
			result.Outcome = LinkFailed
			result.Err = fmt.Errorf("remove existing target: %w", err)
			return result
		}
		outcome = LinkReplaced
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		result.Outcome = LinkFailed
		result.Err = fmt.Errorf("create target dir: %w", err)
		return result
	}

	if err := os.Symlink(source, target); err != nil {
		result.Outcome = LinkFailed
		result.Err = fmt.Errorf("create symlink: %w", err)
		return result
	}

	result.Outcome = outcome
	return result
}
