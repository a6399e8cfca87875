package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/DustyPolk/dev-setup/internal/logging"
	"github.com/DustyPolk/dev-setup/internal/platform"
)

// Manager orchestrates standalone tool download, verification, and
// installation into the dev-setup bin directory.
type Manager struct {
	binDir     string
	keyringDir string
	cacheDir   string
	info       *platform.Info
	downloader *Downloader
	verifier   *Verifier
	extractor  *Extractor
	log        zerolog.Logger
}

// Config holds configuration for the fetch manager
type Config struct {
	// DataDir is the dev-setup data directory
	// (default: ~/.local/share/dev-setup)
	DataDir string
	// Info contains OS and architecture information
	Info *platform.Info
}

// NewManager creates a new fetch manager
func NewManager(config Config) (*Manager, error) {
	if config.DataDir == "" {
		return nil, fmt.Errorf("DataDir is required")
	}
	if config.Info == nil {
		return nil, fmt.Errorf("platform info is required")
	}

	return &Manager{
		binDir:     filepath.Join(config.DataDir, "bin"),
		keyringDir: filepath.Join(config.DataDir, "keyrings"),
		cacheDir:   filepath.Join(config.DataDir, "cache", "downloads"),
		info:       config.Info,
		downloader: NewDownloader(filepath.Join(config.DataDir, "cache", "downloads")),
		verifier:   NewVerifier(filepath.Join(config.DataDir, "keyrings")),
		extractor:  NewExtractor(),
		log:        logging.GetLogger("fetch"),
	}, nil
}

// BinDir returns the directory standalone binaries are installed into.
func (m *Manager) BinDir() string {
	return m.binDir
}

// BinaryPath returns the install path for a tool's binary.
func (m *Manager) BinaryPath(binaryName string) string {
	return filepath.Join(m.binDir, binaryName)
}

// IsInstalled checks if a binary is already installed and executable
func (m *Manager) IsInstalled(binaryName string) (bool, error) {
	info, err := os.Stat(m.BinaryPath(binaryName))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat binary: %w", err)
	}

	if !info.Mode().IsRegular() {
		return false, nil
	}
	if info.Mode().Perm()&0111 == 0 {
		return false, nil
	}

	return true, nil
}

// Install downloads, verifies, and installs a tool's standalone release.
// An already-installed binary is left alone.
func (m *Manager) Install(ctx context.Context, tool, version string) (*InstallResult, error) {
	rel, err := releaseFor(tool, version, m.info)
	if err != nil {
		return nil, fmt.Errorf("resolve release: %w", err)
	}

	installed, err := m.IsInstalled(rel.BinaryName)
	if err != nil {
		return nil, fmt.Errorf("check if installed: %w", err)
	}
	if installed {
		m.log.Debug().Str("tool", tool).Msg("standalone binary already installed")
		return &InstallResult{
			Tool:     tool,
			Version:  rel.Version,
			Path:     m.BinaryPath(rel.BinaryName),
			Verified: VerificationNone,
		}, nil
	}

	startTime := time.Now()

	m.log.Info().
		Str("tool", tool).
		Str("version", rel.Version).
		Str("url", rel.URL).
		Msg("downloading release")

	archivePath, err := m.downloader.FetchArchive(ctx, rel)
	if err != nil {
		return nil, fmt.Errorf("download archive: %w", err)
	}

	var signaturePath, checksumPath string
	if rel.SignatureURL != "" {
		// Missing signature falls back to checksums.
		signaturePath, _ = m.downloader.FetchSignature(ctx, rel)
	}
	if rel.ChecksumURL != "" {
		checksumPath, err = m.downloader.FetchChecksums(ctx, rel)
		if err != nil {
			return nil, fmt.Errorf("download checksums: %w", err)
		}
	}

	verifyResult, err := m.verifier.VerifyArchive(archivePath, signaturePath, checksumPath, rel)
	if err != nil {
		return nil, fmt.Errorf("verify archive: %w", err)
	}
	if !verifyResult.Success {
		return nil, fmt.Errorf("verification failed: %v", verifyResult.Error)
	}

	destPath := m.BinaryPath(rel.BinaryName)
	if err := m.extractor.ExtractBinary(archivePath, destPath, rel.BinaryName, rel.Format); err != nil {
		return nil, fmt.Errorf("extract binary: %w", err)
	}

	if err := SetExecutable(destPath); err != nil {
		return nil, fmt.Errorf("set executable: %w", err)
	}

	m.log.Info().
		Str("tool", tool).
		Str("path", destPath).
		Str("verified", verifyResult.Method.String()).
		Msg("installed standalone binary")

	return &InstallResult{
		Tool:        tool,
		Version:     rel.Version,
		Path:        destPath,
		Verified:    verifyResult.Method,
		InstallTime: time.Since(startTime),
	}, nil
}

// InstallViaBun installs an npm package globally with bun. Tools
// distributed only through the npm registry (claude-code) are installed
// this way once bun itself is present.
func (m *Manager) InstallViaBun(ctx context.Context, pkg string) error {
	bunPath := m.BinaryPath("bun")
	if _, err := os.Stat(bunPath); err != nil {
		// Fall back to a bun already on PATH.
		bunPath, err = exec.LookPath("bun")
		if err != nil {
			return fmt.Errorf("bun is not installed")
		}
	}

	m.log.Info().Str("package", pkg).Msg("installing global package with bun")

	cmd := exec.CommandContext(ctx, bunPath, "install", "-g", pkg)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("bun install -g %s: %w: %s", pkg, err, stderr.String())
	}

	return nil
}
