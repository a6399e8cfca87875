package cli

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// appDirName is the subdirectory used under each XDG base directory.
const appDirName = "dev-setup"

// manifestPath is where the setup.lua manifest lives.
func manifestPath() string {
	return filepath.Join(xdg.ConfigHome, appDirName, "setup.lua")
}

// dataDir holds installed binaries, the dotfiles clone, keyrings, and
// the download cache.
func dataDir() string {
	return filepath.Join(xdg.DataHome, appDirName)
}

// journalDir holds per-run journals.
func journalDir() string {
	return filepath.Join(xdg.StateHome, appDirName, "journal")
}
