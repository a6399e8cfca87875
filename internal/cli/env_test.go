package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnvAdd_AppendsToExistingConfigs(t *testing.T) {
	home := sandboxEnv(t)

	bashrc := filepath.Join(home, ".bashrc")
	if err := os.WriteFile(bashrc, []byte("export FOO=1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	line := `export PATH="$HOME/.cargo/bin:$PATH"`
	out, err := runCommand(t, "env", "add", line, "--comment", "Rust")
	if err != nil {
		t.Fatalf("env add error = %v\n%s", err, out)
	}

	content, err := os.ReadFile(bashrc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "# Rust\n"+line+"\n") {
		t.Errorf("bashrc missing appended block:\n%s", content)
	}
	if !strings.Contains(out, "appended to "+bashrc) {
		t.Errorf("output missing append report:\n%s", out)
	}

	// Second run is a no-op.
	out, err = runCommand(t, "env", "add", line, "--comment", "Rust")
	if err != nil {
		t.Fatalf("second env add error = %v", err)
	}
	if !strings.Contains(out, "already present") {
		t.Errorf("second run should report already present:\n%s", out)
	}
}

func TestEnvAdd_FishVariant(t *testing.T) {
	home := sandboxEnv(t)

	fishConfig := filepath.Join(home, ".config", "fish", "config.fish")
	if err := os.MkdirAll(filepath.Dir(fishConfig), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fishConfig, nil, 0644); err != nil {
		t.Fatal(err)
	}

	posix := `export PATH="$HOME/.cargo/bin:$PATH"`
	fish := `fish_add_path "$HOME/.cargo/bin"`
	if out, err := runCommand(t, "env", "add", posix, "--fish", fish); err != nil {
		t.Fatalf("env add error = %v\n%s", err, out)
	}

	content, err := os.ReadFile(fishConfig)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), fish) {
		t.Errorf("fish config missing fish-dialect line:\n%s", content)
	}
	if strings.Contains(string(content), posix) {
		t.Errorf("fish config received POSIX line:\n%s", content)
	}
}

func TestEnvAdd_RequiresLineArgument(t *testing.T) {
	sandboxEnv(t)

	if _, err := runCommand(t, "env", "add"); err == nil {
		t.Error("env add without a line should fail")
	}
}
