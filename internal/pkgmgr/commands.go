package pkgmgr

import (
	"fmt"

	"github.com/DustyPolk/dev-setup/internal/platform"
)

// refreshArgs builds the package-index refresh command for a manager.
func refreshArgs(manager platform.PackageManager) ([]string, error) {
	switch manager {
	case platform.ManagerApt:
		return []string{"apt-get", "update"}, nil
	case platform.ManagerDNF:
		return []string{"dnf", "makecache"}, nil
	case platform.ManagerYum:
		return []string{"yum", "makecache"}, nil
	case platform.ManagerPacman:
		return []string{"pacman", "-Sy"}, nil
	case platform.ManagerAPK:
		return []string{"apk", "update"}, nil
	case platform.ManagerZypper:
		return []string{"zypper", "--non-interactive", "refresh"}, nil
	case platform.ManagerBrew:
		return []string{"brew", "update"}, nil
	case platform.ManagerUnknown:
		return nil, fmt.Errorf("no refresh command for unknown package manager")
	default:
		return nil, fmt.Errorf("no refresh command for package manager %d", manager)
	}
}

// installArgs builds the non-interactive install command for a manager.
func installArgs(manager platform.PackageManager, pkg string) ([]string, error) {
	if pkg == "" {
		return nil, fmt.Errorf("package name cannot be empty")
	}

	switch manager {
	case platform.ManagerApt:
		return []string{"apt-get", "install", "-y", pkg}, nil
	case platform.ManagerDNF:
		return []string{"dnf", "install", "-y", pkg}, nil
	case platform.ManagerYum:
		return []string{"yum", "install", "-y", pkg}, nil
	case platform.ManagerPacman:
		return []string{"pacman", "-S", "--noconfirm", "--needed", pkg}, nil
	case platform.ManagerAPK:
		return []string{"apk", "add", pkg}, nil
	case platform.ManagerZypper:
		return []string{"zypper", "--non-interactive", "install", pkg}, nil
	case platform.ManagerBrew:
		return []string{"brew", "install", pkg}, nil
	case platform.ManagerUnknown:
		return nil, fmt.Errorf("no install command for unknown package manager")
	default:
		return nil, fmt.Errorf("no install command for package manager %d", manager)
	}
}

// queryArgs builds the installed-package query for a manager. The command
// exits zero when the package is installed.
func queryArgs(manager platform.PackageManager, pkg string) ([]string, error) {
	if pkg == "" {
		return nil, fmt.Errorf("package name cannot be empty")
	}

	switch manager {
	case platform.ManagerApt:
		return []string{"dpkg", "-s", pkg}, nil
	case platform.ManagerDNF, platform.ManagerYum, platform.ManagerZypper:
		return []string{"rpm", "-q", pkg}, nil
	case platform.ManagerPacman:
		return []string{"pacman", "-Qi", pkg}, nil
	case platform.ManagerAPK:
		return []string{"apk", "info", "-e", pkg}, nil
	case platform.ManagerBrew:
		return []string{"brew", "list", pkg}, nil
	case platform.ManagerUnknown:
		return nil, fmt.Errorf("no query command for unknown package manager")
	default:
		return nil, fmt.Errorf("no query command for package manager %d", manager)
	}
}
