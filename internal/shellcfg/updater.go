package shellcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/DustyPolk/dev-setup/internal/logging"
)

// BackupRootName is the backup root directory under the user's home.
const BackupRootName = ".config-backups"

// Updater idempotently appends lines to the user's shell startup files,
// backing each file up before the first mutation of a run.
type Updater struct {
	home    string
	backups *BackupSet
	log     zerolog.Logger
}

// NewUpdater creates an updater. The backup timestamp for the whole run is
// taken here, not per call.
func NewUpdater(config Config) (*Updater, error) {
	home := config.Home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
	}

	backupRoot := config.BackupRoot
	if backupRoot == "" {
		backupRoot = filepath.Join(home, BackupRootName)
	}

	return &Updater{
		home:    home,
		backups: NewBackupSet(backupRoot, time.Now()),
		log:     logging.GetLogger("shellcfg"),
	}, nil
}

// Backups returns the per-run backup set, shared so other provisioning
// steps can snapshot files into the same timestamped directory.
func (u *Updater) Backups() *BackupSet {
	return u.backups
}

// EnsureLinePresent ensures line appears in every applicable shell config
// file, appending it (preceded by a blank line and, when comment is
// non-empty, a "# comment" line) to each target that does not already
// contain it verbatim.
//
// Failures are per-target: one failing target never blocks the others, and
// nothing here aborts the run. The returned error is non-nil only when
// discovery itself failed, in which case zero targets were mutated. Every
// target's outcome is logged and reported in the results.
func (u *Updater) EnsureLinePresent(line, comment string) ([]Result, error) {
	return u.EnsureEnvLine(line, "", comment)
}

// EnsureEnvLine is EnsureLinePresent with a fish-dialect variant: when
// fishLine is non-empty, fish targets receive it instead of line. Lines
// are appended literally, never translated between dialects.
func (u *Updater) EnsureEnvLine(line, fishLine, comment string) ([]Result, error) {
	targets, err := discoverTargets(u.home)
	if err != nil {
		u.log.Error().Err(err).Str("line", line).Msg("no shell config target available")
		return nil, err
	}

	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		effective := line
		if fishLine != "" && isFishTarget(target) {
			effective = fishLine
		}
		results = append(results, u.ensureInFile(target, effective, comment))
	}

	return results, nil
}

// isFishTarget reports whether a target path is the fish config file.
func isFishTarget(path string) bool {
	return filepath.Base(path) == "config.fish"
}

// ensureInFile applies the per-target mutation algorithm to a single file.
func (u *Updater) ensureInFile(target, line, comment string) Result {
	content, err := os.ReadFile(target)
	if err != nil {
		if !os.IsNotExist(err) {
			wrapped := &AppendError{Target: target, Cause: fmt.Errorf("read file: %w", err)}
			u.log.Error().Err(wrapped).Str("target", target).Msg("skipping unreadable target")
			return Result{Target: target, Outcome: OutcomeFailed, Err: wrapped}
		}
		// Discovered but since removed: treat as empty content.
		content = nil
	}

	if containsLine(string(content), line) {
		u.log.Info().Str("target", target).Str("line", line).Msg("line already present")
		return Result{Target: target, Outcome: OutcomeAlreadyPresent}
	}

	// Snapshot before the mutation can become observable. No backup, no
	// append.
	backupPath, err := u.backups.Snapshot(target)
	if err != nil {
		wrapped := &BackupError{Target: target, Cause: err}
		u.log.Error().Err(wrapped).Str("target", target).Msg("backup failed, target skipped")
		return Result{Target: target, Outcome: OutcomeFailed, Err: wrapped}
	}

	if err := appendBlock(target, content, line, comment); err != nil {
		wrapped := &AppendError{Target: target, Cause: err}
		u.log.Error().Err(wrapped).Str("target", target).Str("backup", backupPath).
			Msg("append failed, target left at backed-up state")
		return Result{Target: target, Outcome: OutcomeFailed, BackupPath: backupPath, Err: wrapped}
	}

	u.log.Info().Str("target", target).Str("line", line).Str("backup", backupPath).
		Msg("appended line")
	return Result{Target: target, Outcome: OutcomeAppended, BackupPath: backupPath}
}

// containsLine reports whether any line of content equals line exactly.
// Full-line equality only: a commented-out or reformatted copy of the same
// text counts as absent.
func containsLine(content, line string) bool {
	for _, existing := range strings.Split(content, "\n") {
		if existing == line {
			return true
		}
	}
	return false
}

// appendBlock atomically rewrites target as its existing content followed
// by the appended unit: a blank separator line, the optional "# comment"
// line, and line itself. The write goes through a temp file in the same
// directory plus rename, so a failed write leaves the original untouched.
func appendBlock(target string, existing []byte, line, comment string) error {
	var sb strings.Builder
	sb.Write(existing)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	if comment != "" {
		sb.WriteString("# " + comment + "\n")
	}
	sb.WriteString(line + "\n")

	mode := os.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(target)
	tmpFile, err := os.CreateTemp(dir, ".devsetup-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // No-op after a successful rename.

	if err := tmpFile.Chmod(mode); err != nil {
		tmpFile.Close()
		return fmt.Errorf("set temp file mode: %w", err)
	}

	if _, err := tmpFile.WriteString(sb.String()); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
