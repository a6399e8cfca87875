package config

import (
	"context"
	"testing"
)

func TestSandbox_DangerousGlobalsRemoved(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"os.execute", `setup = { meta = { name = os.execute("true") } }`},
		{"io.open", `setup = { meta = { name = io.open("/etc/passwd") } }`},
		{"require", `local m = require("io"); setup = {}`},
		{"dofile", `dofile("/tmp/evil.lua"); setup = {}`},
		{"loadstring", `loadstring("return 1")(); setup = {}`},
		{"debug", `debug.getinfo(1); setup = {}`},
	}

	p := NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.ParseString(context.Background(), tt.code); err == nil {
				t.Errorf("sandboxed global %s was callable", tt.name)
			}
		})
	}
}

func TestSandbox_SafeLibrariesAvailable(t *testing.T) {
	code := `
setup = {
  meta = { name = string.lower("WORKSTATION") },
  tools = { "git" },
}
`
	p := NewParser(nil)
	cfg, err := p.ParseString(context.Background(), code)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if cfg.Meta.Name != "workstation" {
		t.Errorf("Meta.Name = %q, string library should be available", cfg.Meta.Name)
	}
}
