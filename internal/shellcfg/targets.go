package shellcfg

import (
	"os"
	"path/filepath"
)

// ConfigPath returns the startup file path for the given shell under home.
// ShellUnknown maps to the generic login profile.
func ConfigPath(home string, shell ShellType) string {
	switch shell {
	case ShellBash:
		return filepath.Join(home, ".bashrc")
	case ShellZsh:
		return filepath.Join(home, ".zshrc")
	case ShellFish:
		return filepath.Join(home, ".config", "fish", "config.fish")
	default:
		return filepath.Join(home, ".profile")
	}
}

// candidateShells is the fixed probe priority order for target discovery.
var candidateShells = []ShellType{ShellBash, ShellZsh, ShellFish}

// discoverTargets returns the set of shell config files to operate on.
//
// Rule 1: every known startup file that already exists as a regular file.
// Rule 2: if none exist, exactly one default chosen from the login shell
// (zsh -> ~/.zshrc, bash -> ~/.bashrc, anything else -> ~/.profile),
// created so the append has a destination.
//
// The result is never empty: either all pre-existing configs, or the single
// created default. A creation failure surfaces as *DiscoveryError.
func discoverTargets(home string) ([]string, error) {
	var targets []string
	for _, shell := range candidateShells {
		path := ConfigPath(home, shell)
		if isRegularFile(path) {
			targets = append(targets, path)
		}
	}

	if len(targets) > 0 {
		return targets, nil
	}

	// Fallback: single default from the login shell.
	var fallback string
	switch LoginShell() {
	case ShellZsh:
		fallback = ConfigPath(home, ShellZsh)
	case ShellBash:
		fallback = ConfigPath(home, ShellBash)
	default:
		fallback = ConfigPath(home, ShellUnknown)
	}

	if err := touchFile(fallback); err != nil {
		return nil, &DiscoveryError{Path: fallback, Cause: err}
	}

	return []string{fallback}, nil
}

// isRegularFile reports whether path exists and is a regular file.
// Directories and special files are never valid targets.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// touchFile creates an empty file at path, creating parent directories as
// needed. An already-existing file is left untouched.
func touchFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return file.Close()
}
