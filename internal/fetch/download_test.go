package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadToFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), DefaultUserAgent)
		}
		w.Write([]byte("archive contents"))
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "nested", "archive.zip")
	d := NewDownloader(t.TempDir())

	if err := d.DownloadToFile(context.Background(), server.URL, destPath); err != nil {
		t.Fatalf("DownloadToFile() error = %v", err)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(got) != "archive contents" {
		t.Errorf("downloaded contents = %q", got)
	}

	if _, err := os.Stat(destPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after successful download")
	}
}

func TestDownloadToFile_RetriesTransientFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "file")
	d := NewDownloader(t.TempDir())

	if err := d.DownloadToFile(context.Background(), server.URL, destPath); err != nil {
		t.Fatalf("DownloadToFile() error = %v after %d attempts", err, attempts)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDownloadToFile_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	d := NewDownloader(t.TempDir())
	d.retries = 0

	destPath := filepath.Join(t.TempDir(), "file")
	if err := d.DownloadToFile(context.Background(), server.URL, destPath); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if _, err := os.Stat(destPath); !os.IsNotExist(err) {
		t.Error("partial file left behind after failed download")
	}
}

func TestDownloadToFile_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDownloader(t.TempDir())
	err := d.DownloadToFile(ctx, server.URL, filepath.Join(t.TempDir(), "file"))
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestFetchArchive_UsesCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("cached payload"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	d := NewDownloader(cacheDir)
	rel := &Release{Tool: "bun", Version: "1.5.0", URL: server.URL + "/bun-linux-x64.zip"}

	first, err := d.FetchArchive(context.Background(), rel)
	if err != nil {
		t.Fatalf("first FetchArchive() error = %v", err)
	}
	second, err := d.FetchArchive(context.Background(), rel)
	if err != nil {
		t.Fatalf("second FetchArchive() error = %v", err)
	}

	if first != second {
		t.Errorf("cache paths differ: %q vs %q", first, second)
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (second fetch should use cache)", hits)
	}

	wantPath := filepath.Join(cacheDir, "bun", "1.5.0", "bun-linux-x64.zip")
	if first != wantPath {
		t.Errorf("cache path = %q, want %q", first, wantPath)
	}
}
