package tools

import (
	"testing"
	"time"
)

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{
			name:   "git style",
			output: "git version 2.43.0",
			want:   "2.43.0",
		},
		{
			name:   "node style with v prefix",
			output: "v20.11.1\n",
			want:   "20.11.1",
		},
		{
			name:   "multiline output",
			output: "tmux 3.4\nripgrep 14.1.0 (rev abc)",
			want:   "14.1.0",
		},
		{
			name:    "no version present",
			output:  "usage: foo [options]",
			wantErr: true,
		},
		{
			name:    "two-component version only",
			output:  "tmux 3.4",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVersion(tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVersionCache_Expiry(t *testing.T) {
	versionCacheMu.Lock()
	versionCache["/fake/bin"] = versionCacheEntry{
		version:  "1.2.3",
		cachedAt: time.Now(),
	}
	versionCacheMu.Unlock()

	got, err := DetectVersionCached("/fake/bin")
	if err != nil {
		t.Fatalf("DetectVersionCached() error = %v", err)
	}
	if got != "1.2.3" {
		t.Errorf("DetectVersionCached() = %q, want cached %q", got, "1.2.3")
	}

	// An expired entry forces a re-probe, which fails for a missing binary.
	versionCacheMu.Lock()
	versionCache["/fake/bin"] = versionCacheEntry{
		version:  "1.2.3",
		cachedAt: time.Now().Add(-versionCacheTTL - time.Second),
	}
	versionCacheMu.Unlock()

	if _, err := DetectVersionCached("/fake/bin"); err == nil {
		t.Error("expected error re-probing missing binary after cache expiry")
	}
}

func TestQueryActive_MissingTool(t *testing.T) {
	tool := Tool{Name: "definitely-not-installed-xyz"}
	if _, err := QueryActive(tool); err == nil {
		t.Error("expected error for tool not on PATH")
	}
}

func TestIsOnPath(t *testing.T) {
	if !IsOnPath(Tool{Name: "sh"}) {
		t.Error("sh should be on PATH")
	}
	if IsOnPath(Tool{Name: "definitely-not-installed-xyz"}) {
		t.Error("nonexistent tool reported on PATH")
	}
}
