package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeChecksumFile writes a SHASUMS-style file listing the given
// archive under the given name.
func writeChecksumFile(t *testing.T, dir, entryName string, contents []byte) string {
	t.Helper()

	sum := sha256.Sum256(contents)
	line := fmt.Sprintf("%s  %s\n", hex.EncodeToString(sum[:]), entryName)

	path := filepath.Join(dir, "SHASUMS256.txt")
	if err := os.WriteFile(path, []byte(line), 0644); err != nil {
		t.Fatalf("write checksum file: %v", err)
	}
	return path
}

func TestVerifyArchive_SHA256(t *testing.T) {
	dir := t.TempDir()
	contents := []byte("archive payload")

	archivePath := filepath.Join(dir, "bun-linux-x64.zip")
	if err := os.WriteFile(archivePath, contents, 0644); err != nil {
		t.Fatal(err)
	}
	checksumPath := writeChecksumFile(t, dir, "bun-linux-x64.zip", contents)

	v := NewVerifier("")
	rel := &Release{Tool: "bun", Version: "1.5.0"}

	result, err := v.VerifyArchive(archivePath, "", checksumPath, rel)
	if err != nil {
		t.Fatalf("VerifyArchive() error = %v", err)
	}
	if !result.Success {
		t.Errorf("verification failed: %v", result.Error)
	}
	if result.Method != VerificationSHA256 {
		t.Errorf("Method = %v, want SHA256", result.Method)
	}
}

func TestVerifyArchive_ChecksumMismatch(t *testing.T) {
	dir := t.TempDir()

	archivePath := filepath.Join(dir, "bun-linux-x64.zip")
	if err := os.WriteFile(archivePath, []byte("actual contents"), 0644); err != nil {
		t.Fatal(err)
	}
	checksumPath := writeChecksumFile(t, dir, "bun-linux-x64.zip", []byte("expected contents"))

	v := NewVerifier("")
	rel := &Release{Tool: "bun", Version: "1.5.0"}

	if _, err := v.VerifyArchive(archivePath, "", checksumPath, rel); err == nil {
		t.Error("expected error for checksum mismatch")
	}
}

func TestVerifyArchive_NoMaterial(t *testing.T) {
	v := NewVerifier("")
	rel := &Release{Tool: "bun", Version: "1.5.0"}

	if _, err := v.VerifyArchive("/tmp/archive", "", "", rel); err == nil {
		t.Error("expected error when no verification material available")
	}
}

func TestFindChecksum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checksums.txt")
	data := "" +
		"aaa111  first.tar.gz\n" +
		"bbb222  *starred.zip\n" +
		"ccc333  path/to/nested.zip\n" +
		"malformed-line\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  bool
	}{
		{"exact match", "first.tar.gz", "aaa111", false},
		{"star prefix stripped", "starred.zip", "bbb222", false},
		{"basename match", "nested.zip", "ccc333", false},
		{"not listed", "missing.zip", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findChecksum(path, tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("findChecksum() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("findChecksum() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCalculateSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := calculateSHA256(path)
	if err != nil {
		t.Fatalf("calculateSHA256() error = %v", err)
	}
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("calculateSHA256() = %q, want %q", got, want)
	}
}
