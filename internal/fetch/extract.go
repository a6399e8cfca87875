package fetch

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Extractor pulls a single binary out of a release archive.
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractBinary extracts the named binary from an archive to destPath
// with executable permissions.
func (e *Extractor) ExtractBinary(archivePath, destPath, binaryName string, format ArchiveFormat) error {
	switch format {
	case FormatTarGz:
		return e.extractFromTarGz(archivePath, destPath, binaryName)
	case FormatZip:
		return e.extractFromZip(archivePath, destPath, binaryName)
	default:
		return fmt.Errorf("unsupported archive format: %s", format)
	}
}

// extractFromTarGz scans a tar.gz archive for the binary
func (e *Extractor) extractFromTarGz(archivePath, destPath, binaryName string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return fmt.Errorf("binary %s not found in archive", binaryName)
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		if header.Typeflag == tar.TypeReg && filepath.Base(header.Name) == binaryName {
			return writeBinary(destPath, tarReader)
		}
	}
}

// extractFromZip scans a zip archive for the binary
func (e *Extractor) extractFromZip(archivePath, destPath, binaryName string) error {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zipReader.Close()

	for _, entry := range zipReader.File {
		if entry.FileInfo().IsDir() || filepath.Base(entry.Name) != binaryName {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("open archive entry: %w", err)
		}

		writeErr := writeBinary(destPath, rc)
		rc.Close()
		return writeErr
	}

	return fmt.Errorf("binary %s not found in archive", binaryName)
}

// writeBinary writes binary contents to destPath with 0755 permissions
func writeBinary(destPath string, contents io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	outFile, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(outFile, contents); err != nil {
		outFile.Close()
		return fmt.Errorf("write file: %w", err)
	}

	return outFile.Close()
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
