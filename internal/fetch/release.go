package fetch

import (
	"fmt"

	"github.com/DustyPolk/dev-setup/internal/platform"
)

// PinnedVersions holds the release versions installed by default. They
// are updated together when a new combination has been exercised.
var PinnedVersions = map[string]string{
	"bun": "1.2.20",
}

// releaseFor builds the Release for a tool on the given platform. Tools
// without a standalone release return an error.
func releaseFor(tool, version string, info *platform.Info) (*Release, error) {
	if info == nil {
		return nil, fmt.Errorf("platform info is required")
	}

	if version == "" {
		version = PinnedVersions[tool]
	}
	if version == "" {
		return nil, fmt.Errorf("no pinned version for %s", tool)
	}

	switch tool {
	case "bun":
		return bunRelease(version, info)
	default:
		return nil, fmt.Errorf("no standalone release known for %s", tool)
	}
}

// bunRelease constructs bun download URLs.
// Pattern: https://github.com/oven-sh/bun/releases/download/bun-v{version}/bun-{os}-{arch}.zip
func bunRelease(version string, info *platform.Info) (*Release, error) {
	archName, err := mapBunArch(info.Arch)
	if err != nil {
		return nil, err
	}

	osName, err := mapBunOS(info.OS)
	if err != nil {
		return nil, err
	}

	baseURL := fmt.Sprintf("https://github.com/oven-sh/bun/releases/download/bun-v%s", version)
	archiveName := fmt.Sprintf("bun-%s-%s.zip", osName, archName)

	return &Release{
		Tool:        "bun",
		Version:     version,
		OS:          info.OS,
		Arch:        info.Arch,
		URL:         fmt.Sprintf("%s/%s", baseURL, archiveName),
		ChecksumURL: fmt.Sprintf("%s/SHASUMS256.txt", baseURL),
		Format:      FormatZip,
		BinaryName:  "bun",
	}, nil
}

// mapBunArch maps Go GOARCH values to bun architecture names
func mapBunArch(goarch string) (string, error) {
	switch goarch {
	case "amd64":
		return "x64", nil
	case "arm64":
		return "aarch64", nil
	default:
		return "", fmt.Errorf("unsupported architecture for bun: %s", goarch)
	}
}

// mapBunOS maps Go GOOS values to bun OS names
func mapBunOS(goos string) (string, error) {
	switch goos {
	case "linux":
		return "linux", nil
	case "darwin":
		return "darwin", nil
	default:
		return "", fmt.Errorf("unsupported OS for bun: %s", goos)
	}
}
