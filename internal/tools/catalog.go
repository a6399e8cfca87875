// Package tools defines the workstation tool catalog and probes which
// tools are already installed.
//
// The catalog is the fixed list of CLI tools a provisioned workstation
// gets. Each entry names its executable, how it is installed (system
// package manager or standalone download), the package name per manager
// where distros disagree, and any environment lines the tool needs in the
// user's shell configs.
package tools

import (
	"github.com/DustyPolk/dev-setup/internal/platform"
)

// Strategy says how a tool is installed.
type Strategy int

const (
	// StrategySystem installs through the system package manager.
	StrategySystem Strategy = iota
	// StrategyStandalone installs from an upstream release archive into
	// the dev-setup bin directory.
	StrategyStandalone
)

// String returns human-readable strategy name
func (s Strategy) String() string {
	switch s {
	case StrategySystem:
		return "system"
	case StrategyStandalone:
		return "standalone"
	default:
		return "unknown"
	}
}

// EnvLine is a shell line a tool wants in the user's startup files.
// Fish carries the fish-dialect equivalent; the updater appends literal
// text and never translates between dialects.
type EnvLine struct {
	Line    string
	Fish    string
	Comment string
}

// Tool is one catalog entry.
type Tool struct {
	// Name is the catalog identifier (and default package name).
	Name string
	// Executable is the binary probed for in PATH. Defaults to Name.
	Executable string
	// Strategy says how the tool is installed.
	Strategy Strategy
	// Packages overrides the package name for specific managers.
	Packages map[platform.PackageManager]string
	// Alternate is a fallback package name tried when the primary fails.
	Alternate string
	// Env lists shell lines the tool needs after installation.
	Env []EnvLine
}

// ExecutableName returns the binary name to probe for.
func (t Tool) ExecutableName() string {
	if t.Executable != "" {
		return t.Executable
	}
	return t.Name
}

// PackageName returns the package name to install under the given manager.
func (t Tool) PackageName(manager platform.PackageManager) string {
	if name, ok := t.Packages[manager]; ok {
		return name
	}
	return t.Name
}

// Catalog returns the fixed tool list for a provisioned workstation.
func Catalog() []Tool {
	return []Tool{
		{Name: "git"},
		{Name: "curl"},
		{Name: "unzip"},
		{Name: "tmux"},
		{
			Name:       "neovim",
			Executable: "nvim",
			Packages: map[platform.PackageManager]string{
				platform.ManagerAPK: "neovim",
			},
			Env: []EnvLine{
				{
					Line:    `alias vim="nvim"`,
					Fish:    `alias vim="nvim"`,
					Comment: "Neovim",
				},
			},
		},
		{
			Name:       "ripgrep",
			Executable: "rg",
		},
		{
			Name: "fd",
			Packages: map[platform.PackageManager]string{
				platform.ManagerApt: "fd-find",
			},
			Alternate: "fd-find",
		},
		{
			Name: "fzf",
		},
		{
			Name: "jq",
		},
		{
			Name: "htop",
		},
		{
			Name: "docker",
			Packages: map[platform.PackageManager]string{
				platform.ManagerApt: "docker.io",
			},
			Alternate: "docker",
		},
		{
			Name:       "node",
			Executable: "node",
			Packages: map[platform.PackageManager]string{
				platform.ManagerApt:    "nodejs",
				platform.ManagerDNF:    "nodejs",
				platform.ManagerYum:    "nodejs",
				platform.ManagerAPK:    "nodejs",
				platform.ManagerZypper: "nodejs",
				platform.ManagerPacman: "nodejs",
			},
			Alternate: "node",
		},
		{
			Name:     "bun",
			Strategy: StrategyStandalone,
		},
		{
			Name:       "claude-code",
			Executable: "claude",
			Strategy:   StrategyStandalone,
		},
	}
}

// PathEnvLine returns the shell lines putting binDir on PATH. Standalone
// tools install into the shared dev-setup bin directory, so the directory
// itself goes on PATH rather than a per-tool location.
func PathEnvLine(binDir string) EnvLine {
	return EnvLine{
		Line:    `export PATH="` + binDir + `:$PATH"`,
		Fish:    `fish_add_path "` + binDir + `"`,
		Comment: "dev-setup tools",
	}
}

// ByName returns the catalog entry with the given name.
func ByName(name string) (Tool, bool) {
	for _, tool := range Catalog() {
		if tool.Name == name {
			return tool, true
		}
	}
	return Tool{}, false
}
