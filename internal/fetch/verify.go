package fetch

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // ProtonMail's maintained fork
)

// Verifier checks downloaded archives against published checksums and,
// when a keyring for the tool exists, detached GPG signatures.
type Verifier struct {
	keyringDir string
}

// NewVerifier creates a new verifier
func NewVerifier(keyringDir string) *Verifier {
	return &Verifier{keyringDir: keyringDir}
}

// VerifyArchive verifies a downloaded archive. GPG is preferred when a
// signature and a keyring are both available; otherwise the SHA256
// checksum list is used. An archive with neither fails verification.
func (v *Verifier) VerifyArchive(archivePath, signaturePath, checksumPath string, rel *Release) (*VerificationResult, error) {
	if rel == nil {
		return nil, fmt.Errorf("release is required")
	}

	if signaturePath != "" && v.hasKeyring(rel.Tool) {
		result, err := v.verifyGPG(archivePath, signaturePath, rel.Tool)
		if err != nil {
			return nil, fmt.Errorf("GPG verification failed for %s: %w", rel.Tool, err)
		}
		return result, nil
	}

	if checksumPath != "" {
		result, err := v.verifySHA256(archivePath, checksumPath)
		if err != nil {
			return nil, fmt.Errorf("SHA256 verification failed for %s: %w", rel.Tool, err)
		}
		return result, nil
	}

	return nil, fmt.Errorf("no verification material available for %s", rel.Tool)
}

// hasKeyring reports whether a keyring file exists for the tool.
func (v *Verifier) hasKeyring(tool string) bool {
	if v.keyringDir == "" {
		return false
	}
	_, err := os.Stat(v.keyringPath(tool))
	return err == nil
}

func (v *Verifier) keyringPath(tool string) string {
	return filepath.Join(v.keyringDir, tool+".asc")
}

// verifyGPG verifies a file using a detached GPG signature
func (v *Verifier) verifyGPG(archivePath, signaturePath, tool string) (*VerificationResult, error) {
	keyring, err := v.loadKeyring(tool)
	if err != nil {
		return &VerificationResult{
			Method:  VerificationGPG,
			Success: false,
			Error:   fmt.Errorf("load keyring: %w", err),
		}, err
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return &VerificationResult{
			Method:  VerificationGPG,
			Success: false,
			Error:   fmt.Errorf("open archive: %w", err),
		}, err
	}
	defer archiveFile.Close()

	sigFile, err := os.Open(signaturePath)
	if err != nil {
		return &VerificationResult{
			Method:  VerificationGPG,
			Success: false,
			Error:   fmt.Errorf("open signature: %w", err),
		}, err
	}
	defer sigFile.Close()

	// Try armored first, then binary signatures.
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, archiveFile, sigFile, nil)
	if err != nil {
		archiveFile.Seek(0, io.SeekStart)
		sigFile.Seek(0, io.SeekStart)
		_, err = openpgp.CheckDetachedSignature(keyring, archiveFile, sigFile, nil)
	}
	if err != nil {
		return &VerificationResult{
			Method:  VerificationGPG,
			Success: false,
			Error:   fmt.Errorf("verify signature: %w", err),
		}, err
	}

	return &VerificationResult{Method: VerificationGPG, Success: true}, nil
}

// verifySHA256 verifies a file against a published checksum list
func (v *Verifier) verifySHA256(archivePath, checksumPath string) (*VerificationResult, error) {
	actualChecksum, err := calculateSHA256(archivePath)
	if err != nil {
		return &VerificationResult{
			Method:  VerificationSHA256,
			Success: false,
			Error:   fmt.Errorf("calculate checksum: %w", err),
		}, err
	}

	expectedChecksum, err := findChecksum(checksumPath, filepath.Base(archivePath))
	if err != nil {
		return &VerificationResult{
			Method:  VerificationSHA256,
			Success: false,
			Error:   fmt.Errorf("find checksum: %w", err),
		}, err
	}

	if !strings.EqualFold(actualChecksum, expectedChecksum) {
		return &VerificationResult{
			Method:  VerificationSHA256,
			Success: false,
			Error: fmt.Errorf("checksum mismatch:\nactual:   %s\nexpected: %s",
				actualChecksum, expectedChecksum),
		}, fmt.Errorf("checksum mismatch")
	}

	return &VerificationResult{Method: VerificationSHA256, Success: true}, nil
}

// loadKeyring loads a GPG keyring for a tool from the keyring directory
func (v *Verifier) loadKeyring(tool string) (openpgp.EntityList, error) {
	keyringFile, err := os.Open(v.keyringPath(tool))
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		keyringFile.Seek(0, io.SeekStart)
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}

// calculateSHA256 calculates the SHA256 checksum of a file
func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// findChecksum finds the checksum for a specific filename in a checksum file.
// Format: "abc123def456  filename.zip"
func findChecksum(checksumPath, filename string) (string, error) {
	file, err := os.Open(checksumPath)
	if err != nil {
		return "", fmt.Errorf("open checksum file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		// Exact match first, then basename for entries carrying paths.
		checksumFilename := strings.TrimPrefix(parts[1], "*")
		if checksumFilename == filename || filepath.Base(checksumFilename) == filename {
			return parts[0], nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan checksum file: %w", err)
	}

	return "", fmt.Errorf("checksum not found for %s", filename)
}
