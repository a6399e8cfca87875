package platform

import "fmt"

// PackageManager identifies the system package manager for a platform.
// It is a closed set: resolution either produces a concrete variant or
// ManagerUnknown, and everything that consumes a PackageManager switches
// exhaustively over the variants instead of falling through a silent
// default.
type PackageManager int

const (
	// ManagerUnknown means no supported package manager was identified.
	ManagerUnknown PackageManager = iota
	// ManagerApt is apt-get (Debian, Ubuntu).
	ManagerApt
	// ManagerDNF is dnf (Fedora, modern RHEL).
	ManagerDNF
	// ManagerYum is yum (older RHEL/CentOS without dnf).
	ManagerYum
	// ManagerPacman is pacman (Arch, Manjaro).
	ManagerPacman
	// ManagerAPK is apk (Alpine).
	ManagerAPK
	// ManagerZypper is zypper (openSUSE, SLES).
	ManagerZypper
	// ManagerBrew is Homebrew (macOS).
	ManagerBrew
)

// String returns the package manager's command name.
func (m PackageManager) String() string {
	switch m {
	case ManagerApt:
		return "apt-get"
	case ManagerDNF:
		return "dnf"
	case ManagerYum:
		return "yum"
	case ManagerPacman:
		return "pacman"
	case ManagerAPK:
		return "apk"
	case ManagerZypper:
		return "zypper"
	case ManagerBrew:
		return "brew"
	case ManagerUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// UnsupportedPlatformError is returned when no package manager can be
// derived for a platform.
type UnsupportedPlatformError struct {
	OS     string
	Family string
}

func (e *UnsupportedPlatformError) Error() string {
	if e.Family != "" {
		return fmt.Sprintf("no supported package manager for %s (%s family)", e.OS, e.Family)
	}
	return fmt.Sprintf("no supported package manager for %s", e.OS)
}

// ResolvePackageManager derives the package manager from detected platform
// information. RHEL-family distros at major version 7 and below get yum;
// everything newer in that family gets dnf.
func ResolvePackageManager(info *Info) (PackageManager, error) {
	if info.IsMacOS() {
		return ManagerBrew, nil
	}
	if !info.IsLinux() {
		return ManagerUnknown, &UnsupportedPlatformError{OS: info.OS}
	}

	switch info.Family {
	case FamilyDebian:
		return ManagerApt, nil
	case FamilyFedora:
		return ManagerDNF, nil
	case FamilyRHEL:
		if majorVersion(info.Version) <= 7 && info.Version != "" {
			return ManagerYum, nil
		}
		return ManagerDNF, nil
	case FamilyArch:
		return ManagerPacman, nil
	case FamilyAlpine:
		return ManagerAPK, nil
	case FamilySUSE:
		return ManagerZypper, nil
	default:
		return ManagerUnknown, &UnsupportedPlatformError{OS: info.OS, Family: info.Family}
	}
}

// majorVersion parses the leading integer of a version string like "7.9"
// or "22.04". Returns 0 when nothing parses.
func majorVersion(version string) int {
	major := 0
	for _, r := range version {
		if r < '0' || r > '9' {
			break
		}
		major = major*10 + int(r-'0')
	}
	return major
}
