package report

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// installFakeTool writes an executable shell script into dir that
// prints the given version output.
func installFakeTool(t *testing.T, dir, name, versionOutput string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	script := "#!/bin/sh\necho \"" + versionOutput + "\"\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheck_MissingTool(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	d := NewDetector("")
	results := d.Check([]string{"definitely-not-installed-xyz"})

	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Status != StatusMissing {
		t.Errorf("Status = %v, want missing", results[0].Status)
	}
}

func TestCheck_InstalledTool(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}

	pathDir := t.TempDir()
	installFakeTool(t, pathDir, "sometool", "sometool version 9.8.7")
	t.Setenv("PATH", pathDir)

	d := NewDetector("")
	results := d.Check([]string{"sometool"})

	if results[0].Status != StatusOK {
		t.Fatalf("Status = %v, want OK", results[0].Status)
	}
	if results[0].Version != "9.8.7" {
		t.Errorf("Version = %q, want 9.8.7", results[0].Version)
	}
	if results[0].Path == "" {
		t.Error("Path not set")
	}
}

func TestCheck_ShadowedStandaloneTool(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}

	// bun exists both in the managed bin dir and earlier on PATH.
	binDir := t.TempDir()
	installFakeTool(t, binDir, "bun", "1.2.20")

	pathDir := t.TempDir()
	installFakeTool(t, pathDir, "bun", "1.0.0")
	t.Setenv("PATH", pathDir)

	d := NewDetector(binDir)
	results := d.Check([]string{"bun"})

	if results[0].Status != StatusShadowed {
		t.Fatalf("Status = %v, want shadowed", results[0].Status)
	}
	if results[0].ManagedPath != filepath.Join(binDir, "bun") {
		t.Errorf("ManagedPath = %q", results[0].ManagedPath)
	}
}

func TestCheck_ManagedToolOnPathIsOK(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}

	// The managed bin dir is itself on PATH, so the managed binary is
	// the active one.
	binDir := t.TempDir()
	installFakeTool(t, binDir, "bun", "1.2.20")
	t.Setenv("PATH", binDir)

	d := NewDetector(binDir)
	results := d.Check([]string{"bun"})

	if results[0].Status != StatusOK {
		t.Fatalf("Status = %v, want OK (got %+v)", results[0].Status, results[0])
	}
}
