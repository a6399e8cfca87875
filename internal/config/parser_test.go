package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DustyPolk/dev-setup/internal/platform"
)

// stubDetector returns a fixed platform without touching the host.
type stubDetector struct {
	info *platform.Info
}

func (d *stubDetector) Detect(ctx context.Context) (*platform.Info, error) {
	return d.info, nil
}

func linuxDetector() platform.Detector {
	return &stubDetector{info: &platform.Info{
		OS:       "linux",
		Arch:     "amd64",
		ArchRaw:  "x86_64",
		Platform: "ubuntu",
		Family:   platform.FamilyDebian,
		Version:  "24.04",
	}}
}

func TestParseString_FullManifest(t *testing.T) {
	manifest := `
setup = {
  meta = {
    name = "workstation",
    description = "dev box",
  },
  tools = { "git", "tmux", "ripgrep" },
  dotfiles = {
    remote = "https://github.com/user/dotfiles.git",
    branch = "main",
    links = {
      "tmux.conf",
      { source = "gitconfig", target = ".gitconfig" },
    },
  },
  env = {
    "export EDITOR=nvim",
    { line = 'export PATH="$HOME/.bun/bin:$PATH"', comment = "Bun", fish = 'fish_add_path "$HOME/.bun/bin"' },
  },
  options = {
    skip_dotfiles = false,
  },
}
`
	p := NewParser(nil)
	cfg, err := p.ParseString(context.Background(), manifest)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if cfg.Meta.Name != "workstation" {
		t.Errorf("Meta.Name = %q", cfg.Meta.Name)
	}
	if len(cfg.Tools) != 3 || cfg.Tools[1] != "tmux" {
		t.Errorf("Tools = %v", cfg.Tools)
	}
	if cfg.Dotfiles.Remote != "https://github.com/user/dotfiles.git" {
		t.Errorf("Dotfiles.Remote = %q", cfg.Dotfiles.Remote)
	}
	if cfg.Dotfiles.Branch != "main" {
		t.Errorf("Dotfiles.Branch = %q", cfg.Dotfiles.Branch)
	}
	if len(cfg.Dotfiles.Links) != 2 {
		t.Fatalf("Links = %v", cfg.Dotfiles.Links)
	}
	if cfg.Dotfiles.Links[0] != (LinkEntry{Source: "tmux.conf"}) {
		t.Errorf("Links[0] = %+v", cfg.Dotfiles.Links[0])
	}
	if cfg.Dotfiles.Links[1] != (LinkEntry{Source: "gitconfig", Target: ".gitconfig"}) {
		t.Errorf("Links[1] = %+v", cfg.Dotfiles.Links[1])
	}
	if len(cfg.Env) != 2 {
		t.Fatalf("Env = %v", cfg.Env)
	}
	if cfg.Env[0].Line != "export EDITOR=nvim" || cfg.Env[0].Comment != "" {
		t.Errorf("Env[0] = %+v", cfg.Env[0])
	}
	if cfg.Env[1].Comment != "Bun" || cfg.Env[1].Fish == "" {
		t.Errorf("Env[1] = %+v", cfg.Env[1])
	}
}

func TestParseString_PlatformConditionals(t *testing.T) {
	manifest := `
setup = {
  tools = {
    "git",
    platform.is_linux and "docker" or nil,
    platform.is_macos and "mac-only-tool" or nil,
  },
}
`
	p := NewParser(linuxDetector())
	cfg, err := p.ParseString(context.Background(), manifest)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	want := []string{"git", "docker"}
	if len(cfg.Tools) != len(want) {
		t.Fatalf("Tools = %v, want %v", cfg.Tools, want)
	}
	for i := range want {
		if cfg.Tools[i] != want[i] {
			t.Errorf("Tools[%d] = %q, want %q", i, cfg.Tools[i], want[i])
		}
	}
}

func TestParseString_MissingSetupTable(t *testing.T) {
	p := NewParser(nil)
	_, err := p.ParseString(context.Background(), `x = 1`)
	if err == nil {
		t.Fatal("expected error for missing setup table")
	}
	if !strings.Contains(err.Error(), "setup") {
		t.Errorf("error should mention the setup table: %v", err)
	}
}

func TestParseString_SyntaxError(t *testing.T) {
	p := NewParser(nil)
	_, err := p.ParseString(context.Background(), `setup = {`)
	if err == nil {
		t.Fatal("expected error for syntax error")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("error type = %T, want *ParseError", err)
	}
}

func TestParseString_ValidationFailure(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{
			name:     "invalid tool name",
			manifest: `setup = { tools = { "Bad Tool!" } }`,
		},
		{
			name:     "empty env line",
			manifest: `setup = { env = { "   " } }`,
		},
		{
			name: "link traversal",
			manifest: `setup = { dotfiles = {
				remote = "https://example.com/d.git",
				links = { "../etc/passwd" },
			} }`,
		},
		{
			name:     "links without remote",
			manifest: `setup = { dotfiles = { links = { "tmux.conf" } } }`,
		},
		{
			name: "bad remote scheme",
			manifest: `setup = { dotfiles = {
				remote = "ftp://example.com/d.git",
			} }`,
		},
	}

	p := NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.ParseString(context.Background(), tt.manifest); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.lua")
	if err := os.WriteFile(path, []byte(`setup = { tools = { "git" } }`), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewParser(nil)
	cfg, err := p.ParseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(cfg.Tools) != 1 || cfg.Tools[0] != "git" {
		t.Errorf("Tools = %v", cfg.Tools)
	}

	if _, err := p.ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFormatError_TrimsTraceback(t *testing.T) {
	err := &ParseError{
		Message: "Lua syntax error",
		Detail:  "line 3: unexpected symbol\nstack traceback:\n  ...",
	}

	short := FormatError(err, false)
	if strings.Contains(short, "stack traceback") {
		t.Errorf("non-verbose output contains traceback: %q", short)
	}

	verbose := FormatError(err, true)
	if !strings.Contains(verbose, "stack traceback") {
		t.Errorf("verbose output missing traceback: %q", verbose)
	}
}
