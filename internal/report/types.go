// Package report checks the installed state of catalog tools and
// formats the result for the doctor command.
package report

// Status classifies one tool's installed state.
type Status int

const (
	// StatusOK means the tool is on PATH with a detectable version.
	StatusOK Status = iota
	// StatusMissing means the tool is not on PATH.
	StatusMissing
	// StatusVersionUnknown means the tool is on PATH but its version
	// could not be detected.
	StatusVersionUnknown
	// StatusShadowed means a dev-setup-installed binary exists but PATH
	// resolves the tool somewhere else.
	StatusShadowed
)

// String returns human-readable status name
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusMissing:
		return "MISSING"
	case StatusVersionUnknown:
		return "VERSION_UNKNOWN"
	case StatusShadowed:
		return "SHADOWED"
	default:
		return "UNKNOWN"
	}
}

// ToolStatus is the check result for one tool.
type ToolStatus struct {
	Tool    string
	Status  Status
	Version string
	// Path is where PATH resolves the tool, symlinks followed.
	Path string
	// ManagedPath is the dev-setup install location, set for shadowed
	// tools.
	ManagedPath string
}
