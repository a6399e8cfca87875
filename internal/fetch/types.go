package fetch

import "time"

// ArchiveFormat identifies how a release archive is packed.
type ArchiveFormat int

const (
	// FormatTarGz is a gzip-compressed tarball.
	FormatTarGz ArchiveFormat = iota
	// FormatZip is a zip archive.
	FormatZip
)

// String returns the conventional file extension for the format.
func (f ArchiveFormat) String() string {
	switch f {
	case FormatTarGz:
		return "tar.gz"
	case FormatZip:
		return "zip"
	default:
		return "unknown"
	}
}

// Release describes one downloadable tool release for a specific platform.
type Release struct {
	Tool    string
	Version string
	OS      string
	Arch    string
	// URL is the archive download location.
	URL string
	// ChecksumURL points at the published SHA256 checksum list. Empty
	// when the project publishes none.
	ChecksumURL string
	// SignatureURL points at a detached GPG signature. Empty when the
	// project does not sign releases.
	SignatureURL string
	Format       ArchiveFormat
	// BinaryName is the executable's name inside the archive.
	BinaryName string
}

// VerificationMethod indicates how a downloaded archive was verified.
type VerificationMethod int

const (
	// VerificationNone means the archive was not verified.
	VerificationNone VerificationMethod = iota
	// VerificationGPG means a detached signature was checked.
	VerificationGPG
	// VerificationSHA256 means the published checksum matched.
	VerificationSHA256
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG"
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// VerificationResult contains the outcome of a verification attempt
type VerificationResult struct {
	Method  VerificationMethod
	Success bool
	Error   error
}

// InstallResult describes a completed standalone install.
type InstallResult struct {
	Tool        string
	Version     string
	Path        string
	Verified    VerificationMethod
	InstallTime time.Duration
}
