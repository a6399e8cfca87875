package tools

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

var versionRegex = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ActiveTool describes an installed tool as found on PATH.
type ActiveTool struct {
	Name string
	// Path is the resolved binary location with symlinks followed.
	Path    string
	Version string
}

// QueryActive looks a tool up on PATH and resolves its real location.
// A tool not on PATH returns an error.
func QueryActive(tool Tool) (*ActiveTool, error) {
	exe := tool.ExecutableName()

	binaryPath, err := exec.LookPath(exe)
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", exe, err)
	}

	resolvedPath, err := filepath.EvalSymlinks(binaryPath)
	if err != nil {
		// Keep the unresolved path rather than failing the probe.
		resolvedPath = binaryPath
	}

	version, err := DetectVersionCached(resolvedPath)
	if err != nil {
		version = ""
	}

	return &ActiveTool{
		Name:    tool.Name,
		Path:    resolvedPath,
		Version: version,
	}, nil
}

// IsOnPath reports whether the tool's executable is reachable.
func IsOnPath(tool Tool) bool {
	_, err := exec.LookPath(tool.ExecutableName())
	return err == nil
}

// DetectVersion runs the binary to extract its version. It tries
// --version first, then -v for tools that only accept the short flag.
func DetectVersion(binaryPath string) (string, error) {
	output, err := exec.Command(binaryPath, "--version").Output()
	if err == nil {
		if version, verr := ExtractVersion(string(output)); verr == nil {
			return version, nil
		}
	}

	output, err = exec.Command(binaryPath, "-v").Output()
	if err == nil {
		if version, verr := ExtractVersion(string(output)); verr == nil {
			return version, nil
		}
	}

	return "", fmt.Errorf("could not detect version for %s", binaryPath)
}

// ExtractVersion pulls a semver-looking version out of command output.
func ExtractVersion(output string) (string, error) {
	match := versionRegex.FindString(output)
	if match == "" {
		return "", fmt.Errorf("no version found in output")
	}
	return match, nil
}

type versionCacheEntry struct {
	version  string
	cachedAt time.Time
}

var (
	versionCache   = make(map[string]versionCacheEntry)
	versionCacheMu sync.RWMutex
)

const versionCacheTTL = 5 * time.Minute

// DetectVersionCached is DetectVersion with a short-lived cache, since a
// single run probes the same binaries several times.
func DetectVersionCached(binaryPath string) (string, error) {
	versionCacheMu.RLock()
	entry, ok := versionCache[binaryPath]
	versionCacheMu.RUnlock()

	if ok && time.Since(entry.cachedAt) < versionCacheTTL {
		return entry.version, nil
	}

	version, err := DetectVersion(binaryPath)
	if err != nil {
		return "", err
	}

	versionCacheMu.Lock()
	versionCache[binaryPath] = versionCacheEntry{
		version:  version,
		cachedAt: time.Now(),
	}
	versionCacheMu.Unlock()

	return version, nil
}
