package shellcfg

import "fmt"

// ShellType represents a supported shell
type ShellType string

const (
	// ShellBash represents the Bash shell
	ShellBash ShellType = "bash"
	// ShellZsh represents the Z shell
	ShellZsh ShellType = "zsh"
	// ShellFish represents the Fish shell
	ShellFish ShellType = "fish"
	// ShellUnknown represents an unknown or unsupported shell
	ShellUnknown ShellType = "unknown"
)

// String returns the string representation of the shell type
func (s ShellType) String() string {
	return string(s)
}

// IsValid returns true if the shell type is supported
func (s ShellType) IsValid() bool {
	switch s {
	case ShellBash, ShellZsh, ShellFish:
		return true
	default:
		return false
	}
}

// Outcome describes what happened to a single target during
// EnsureLinePresent.
type Outcome int

const (
	// OutcomeAlreadyPresent means the exact line was found and nothing
	// was written, not even a backup.
	OutcomeAlreadyPresent Outcome = iota
	// OutcomeAppended means the target was backed up and the line block
	// was appended.
	OutcomeAppended
	// OutcomeFailed means the target was skipped because of an error.
	// Result.Err carries the cause.
	OutcomeFailed
)

// String returns human-readable outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyPresent:
		return "already-present"
	case OutcomeAppended:
		return "appended"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result records the outcome for one target of an EnsureLinePresent call.
type Result struct {
	// Target is the path of the shell config file.
	Target string
	// Outcome classifies what happened.
	Outcome Outcome
	// BackupPath is the snapshot location, set only when a backup was
	// actually written.
	BackupPath string
	// Err is the per-target failure, set only when Outcome is
	// OutcomeFailed.
	Err error
}

// Config holds configuration for the updater.
type Config struct {
	// Home overrides the user's home directory (tests). Defaults to
	// os.UserHomeDir.
	Home string
	// BackupRoot overrides the backup root directory. Defaults to
	// <home>/.config-backups.
	BackupRoot string
}

// DiscoveryError means no shell config targets exist and the fallback
// default could not be created. The call mutated zero targets.
type DiscoveryError struct {
	Path  string
	Cause error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover shell config targets (%s): %v", e.Path, e.Cause)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}

// BackupError means the pre-mutation snapshot of a target could not be
// written. The target is never appended to without a snapshot.
type BackupError struct {
	Target string
	Cause  error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup %s: %v", e.Target, e.Cause)
}

func (e *BackupError) Unwrap() error {
	return e.Cause
}

// AppendError means the backup succeeded but the append write failed. The
// target file is left in its pre-mutation state.
type AppendError struct {
	Target string
	Cause  error
}

func (e *AppendError) Error() string {
	return fmt.Sprintf("append to %s: %v", e.Target, e.Cause)
}

func (e *AppendError) Unwrap() error {
	return e.Cause
}
