// Package config parses the setup.lua manifest that declares which
// tools, dotfiles, and shell environment lines a workstation gets.
//
// Manifests are Lua, executed in a sandboxed VM with a read-only
// platform table injected, so a single manifest can make per-platform
// decisions declaratively.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// MaxToolCount bounds the tools list.
	MaxToolCount = 200
	// MaxEnvCount bounds the env lines list.
	MaxEnvCount = 100
	// MaxLinkCount bounds the dotfile links list.
	MaxLinkCount = 200
	// MaxManifestSize bounds the manifest file size in bytes.
	MaxManifestSize = 256 * 1024
)

// Config is the parsed setup.lua manifest.
type Config struct {
	Meta     Meta           `json:"meta,omitempty"`
	Tools    []string       `json:"tools,omitempty"`
	Dotfiles DotfilesConfig `json:"dotfiles,omitempty"`
	Env      []EnvEntry     `json:"env,omitempty"`
	Options  Options        `json:"options,omitempty"`
}

// Meta contains metadata about the manifest.
type Meta struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// DotfilesConfig declares the dotfiles repository and which of its
// files are linked into the home directory.
type DotfilesConfig struct {
	Remote string      `json:"remote,omitempty"`
	Branch string      `json:"branch,omitempty"`
	Links  []LinkEntry `json:"links,omitempty"`
}

// LinkEntry maps one repository file to a home-relative target. A bare
// string in the manifest becomes a LinkEntry with an empty Target.
type LinkEntry struct {
	Source string `json:"source"`
	Target string `json:"target,omitempty"`
}

// EnvEntry is one shell line to ensure in the user's startup files.
type EnvEntry struct {
	Line    string `json:"line"`
	Comment string `json:"comment,omitempty"`
	// Fish is the fish-dialect equivalent. Empty means the POSIX line
	// is used for fish targets too.
	Fish string `json:"fish,omitempty"`
}

// Options contains behavior knobs.
type Options struct {
	// SkipPackages disables system package installation.
	SkipPackages bool `json:"skip_packages,omitempty"`
	// SkipDotfiles disables dotfiles sync and linking.
	SkipDotfiles bool `json:"skip_dotfiles,omitempty"`
}

// ValidationError represents a manifest validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "manifest validation failed for " + e.Field + ": " + e.Message
	}
	return "manifest validation failed: " + e.Message
}

// toolNamePattern matches valid catalog tool names.
var toolNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if len(c.Tools) > MaxToolCount {
		return &ValidationError{
			Field:   "tools",
			Message: fmt.Sprintf("too many tools (%d), maximum is %d", len(c.Tools), MaxToolCount),
		}
	}
	for i, tool := range c.Tools {
		if err := validateToolName(tool); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("tools[%d]", i),
				Message: err.Error(),
			}
		}
	}

	if len(c.Env) > MaxEnvCount {
		return &ValidationError{
			Field:   "env",
			Message: fmt.Sprintf("too many env lines (%d), maximum is %d", len(c.Env), MaxEnvCount),
		}
	}
	for i, env := range c.Env {
		if strings.TrimSpace(env.Line) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("env[%d].line", i),
				Message: "line cannot be empty",
			}
		}
		if strings.ContainsAny(env.Line, "\n\r") {
			return &ValidationError{
				Field:   fmt.Sprintf("env[%d].line", i),
				Message: "line cannot span multiple lines",
			}
		}
	}

	if len(c.Dotfiles.Links) > MaxLinkCount {
		return &ValidationError{
			Field:   "dotfiles.links",
			Message: fmt.Sprintf("too many links (%d), maximum is %d", len(c.Dotfiles.Links), MaxLinkCount),
		}
	}
	for i, link := range c.Dotfiles.Links {
		if err := validateLinkPath(link.Source); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("dotfiles.links[%d].source", i),
				Message: err.Error(),
			}
		}
		if link.Target != "" {
			if err := validateLinkPath(link.Target); err != nil {
				return &ValidationError{
					Field:   fmt.Sprintf("dotfiles.links[%d].target", i),
					Message: err.Error(),
				}
			}
		}
	}

	if c.Dotfiles.Remote != "" {
		if err := validateGitRemote(c.Dotfiles.Remote); err != nil {
			return &ValidationError{Field: "dotfiles.remote", Message: err.Error()}
		}
	}
	if len(c.Dotfiles.Links) > 0 && c.Dotfiles.Remote == "" {
		return &ValidationError{
			Field:   "dotfiles.remote",
			Message: "remote is required when links are declared",
		}
	}

	return nil
}

// validateToolName validates a tool name against the catalog format.
func validateToolName(tool string) error {
	if tool == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if len(tool) > 64 {
		return fmt.Errorf("tool name too long (%d chars, max 64)", len(tool))
	}
	if !toolNamePattern.MatchString(tool) {
		return fmt.Errorf("invalid tool name: %q", tool)
	}
	return nil
}

// validateLinkPath rejects absolute paths and path traversal in link
// entries. Links are always relative to the repository or the home
// directory.
func validateLinkPath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("absolute paths not allowed: %s", path)
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("path traversal not allowed: %s", path)
	}
	return nil
}

// validateGitRemote validates a Git remote URL.
// Supports both HTTPS and SSH formats.
func validateGitRemote(remote string) error {
	if strings.HasPrefix(remote, "git@") {
		parts := strings.Split(remote, ":")
		if len(parts) != 2 {
			return fmt.Errorf("invalid SSH git URL format")
		}
		return nil
	}

	u, err := url.Parse(remote)
	if err != nil {
		return fmt.Errorf("invalid git URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" && u.Scheme != "file" {
		return fmt.Errorf("git URL must use https://, http://, or file:// scheme (got: %s)", u.Scheme)
	}
	return nil
}
