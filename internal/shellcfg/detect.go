package shellcfg

import (
	"os"
	"path/filepath"
	"strings"
)

// LoginShell returns the user's configured login shell based on the $SHELL
// environment variable. Returns ShellUnknown when $SHELL is unset or names
// a shell this package does not recognize.
func LoginShell() ShellType {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return ShellUnknown
	}
	return parseShellFromPath(shell)
}

// parseShellFromPath extracts the shell type from a shell binary path
// Examples:
//   - /bin/bash -> bash
//   - /usr/bin/zsh -> zsh
//   - /usr/local/bin/fish -> fish
func parseShellFromPath(shellPath string) ShellType {
	baseName := strings.ToLower(filepath.Base(shellPath))

	switch baseName {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	default:
		return ShellUnknown
	}
}
