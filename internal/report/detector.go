package report

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/DustyPolk/dev-setup/internal/logging"
	"github.com/DustyPolk/dev-setup/internal/tools"
)

// Detector checks which catalog tools are installed and usable.
type Detector struct {
	// binDir is where dev-setup installs standalone binaries. Used to
	// spot shadowed installs. Empty disables the shadow check.
	binDir string
	log    zerolog.Logger
}

// NewDetector creates a detector. binDir may be empty.
func NewDetector(binDir string) *Detector {
	return &Detector{
		binDir: binDir,
		log:    logging.GetLogger("report"),
	}
}

// Check probes each named tool and classifies its state. Names not in
// the catalog are probed as bare executables.
func (d *Detector) Check(names []string) []ToolStatus {
	results := make([]ToolStatus, 0, len(names))
	for _, name := range names {
		tool, ok := tools.ByName(name)
		if !ok {
			tool = tools.Tool{Name: name}
		}
		results = append(results, d.checkOne(tool))
	}
	return results
}

func (d *Detector) checkOne(tool tools.Tool) ToolStatus {
	status := ToolStatus{Tool: tool.Name}

	active, err := tools.QueryActive(tool)
	if err != nil {
		status.Status = StatusMissing
		d.log.Debug().Str("tool", tool.Name).Msg("tool not on PATH")
		return status
	}

	status.Path = active.Path
	status.Version = active.Version

	if managed := d.managedPath(tool); managed != "" && !samePath(managed, active.Path) {
		status.Status = StatusShadowed
		status.ManagedPath = managed
		return status
	}

	if active.Version == "" {
		status.Status = StatusVersionUnknown
		return status
	}

	status.Status = StatusOK
	return status
}

// managedPath returns the dev-setup install location for a standalone
// tool, or empty when the tool is not installed there.
func (d *Detector) managedPath(tool tools.Tool) string {
	if d.binDir == "" || tool.Strategy != tools.StrategyStandalone {
		return ""
	}

	path := filepath.Join(d.binDir, tool.ExecutableName())
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return path
}

// samePath compares two paths after resolving symlinks.
func samePath(a, b string) bool {
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		ra = a
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		rb = b
	}
	return ra == rb
}
