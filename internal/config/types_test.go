package config

import (
	"strings"
	"testing"
)

func TestValidateToolName(t *testing.T) {
	tests := []struct {
		tool    string
		wantErr bool
	}{
		{"git", false},
		{"claude-code", false},
		{"fd", false},
		{"node_exporter", false},
		{"docker.io", false},
		{"", true},
		{"Bad Tool", true},
		{"UPPER", true},
		{"-leading-dash", true},
		{strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			err := validateToolName(tt.tool)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateToolName(%q) error = %v, wantErr %v", tt.tool, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLinkPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"tmux.conf", false},
		{"config/starship.toml", false},
		{".gitconfig", false},
		{"", true},
		{"/etc/passwd", true},
		{"../outside", true},
		{"a/../../outside", true},
		{"inner/../fine", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := validateLinkPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateLinkPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGitRemote(t *testing.T) {
	tests := []struct {
		remote  string
		wantErr bool
	}{
		{"https://github.com/user/dotfiles.git", false},
		{"http://internal.example.com/d.git", false},
		{"git@github.com:user/dotfiles.git", false},
		{"file:///srv/git/dotfiles", false},
		{"ftp://example.com/d.git", true},
		{"git@github.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			err := validateGitRemote(tt.remote)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateGitRemote(%q) error = %v, wantErr %v", tt.remote, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	cfg := &Config{Tools: []string{"git", "Bad!"}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if verr.Field != "tools[1]" {
		t.Errorf("Field = %q, want tools[1]", verr.Field)
	}
}

func TestValidate_EnvLineRules(t *testing.T) {
	multiline := &Config{Env: []EnvEntry{{Line: "a\nb"}}}
	if multiline.Validate() == nil {
		t.Error("expected error for multiline env entry")
	}

	ok := &Config{Env: []EnvEntry{{Line: "export EDITOR=nvim"}}}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
