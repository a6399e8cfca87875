// Package journal records each provisioning run as a JSON document so
// an interrupted run can be diagnosed and a completed run audited.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// State represents the current state of a run or one of its steps.
type State string

const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Step names the provisioning phases recorded in a run.
type Step string

const (
	StepPackages   Step = "packages"
	StepStandalone Step = "standalone"
	StepDotfiles   Step = "dotfiles"
	StepShellEnv   Step = "shell-env"
)

// Run is one provisioning run's journal entry.
type Run struct {
	Version   int          `json:"version"` // Schema version for future evolution
	ID        string       `json:"id"`      // UUID for unique identification
	Timestamp time.Time    `json:"timestamp"`
	Steps     []StepRecord `json:"steps"`
	// BackupDir is where this run put its file backups, empty when the
	// run mutated nothing.
	BackupDir string `json:"backup_dir,omitempty"`
}

// StepRecord is the journal state for a single step.
type StepRecord struct {
	Step      Step   `json:"step"`
	State     State  `json:"state"`
	Detail    string `json:"detail,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// New creates a run journal covering the given steps, all pending.
func New(steps []Step) *Run {
	records := make([]StepRecord, 0, len(steps))
	for _, step := range steps {
		records = append(records, StepRecord{Step: step, State: StatePending})
	}

	return &Run{
		Version:   1,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Steps:     records,
	}
}

// Save writes the run journal to dir atomically using the
// write-then-rename pattern.
func (r *Run) Save(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create journal directory: %w", err)
	}

	finalPath := filepath.Join(dir, fmt.Sprintf("run-%s.json", r.ID))
	tmpPath := finalPath + ".tmp"

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run journal: %w", err)
	}

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temporary journal file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename journal file: %w", err)
	}

	// Sync directory for durability
	df, err := os.Open(dir)
	if err == nil {
		if syncErr := df.Sync(); syncErr != nil {
			df.Close()
			return fmt.Errorf("sync directory: %w", syncErr)
		}
		df.Close()
	}

	return nil
}

// Load reads a run journal from disk.
func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read journal file: %w", err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("unmarshal run journal: %w", err)
	}

	return &run, nil
}

// LoadLatest reads the most recent run journal in dir, or nil when the
// directory holds none.
func LoadLatest(dir string) (*Run, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal directory: %w", err)
	}

	var latest *Run
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		run, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if latest == nil || run.Timestamp.After(latest.Timestamp) {
			latest = run
		}
	}

	return latest, nil
}

// UpdateStep updates the state of a step. A non-nil err is recorded;
// nil clears any prior error.
func (r *Run) UpdateStep(step Step, state State, detail string, err error) {
	for i := range r.Steps {
		if r.Steps[i].Step != step {
			continue
		}
		r.Steps[i].State = state
		if detail != "" {
			r.Steps[i].Detail = detail
		}
		if err != nil {
			r.Steps[i].LastError = err.Error()
		} else {
			r.Steps[i].LastError = ""
		}
		break
	}
}

// HasFailures returns true if any step failed.
func (r *Run) HasFailures() bool {
	for _, s := range r.Steps {
		if s.State == StateFailed {
			return true
		}
	}
	return false
}

// AllCompleted returns true if every step completed.
func (r *Run) AllCompleted() bool {
	for _, s := range r.Steps {
		if s.State != StateCompleted {
			return false
		}
	}
	return len(r.Steps) > 0
}
