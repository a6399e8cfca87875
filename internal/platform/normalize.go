package platform

import (
	"fmt"
	"strings"
)

// familyMap maps distribution and family names to their canonical family
// names. Both gopsutil's family string and the distro ID itself are looked
// up here, since gopsutil sometimes reports the distro name as the family.
var familyMap = map[string]string{
	"debian":    FamilyDebian,
	"ubuntu":    FamilyDebian,
	"mint":      FamilyDebian,
	"pop":       FamilyDebian,
	"rhel":      FamilyRHEL,
	"centos":    FamilyRHEL,
	"rocky":     FamilyRHEL,
	"almalinux": FamilyRHEL,
	"fedora":    FamilyFedora,
	"suse":      FamilySUSE,
	"opensuse":  FamilySUSE,
	"sles":      FamilySUSE,
	"arch":      FamilyArch,
	"manjaro":   FamilyArch,
	"alpine":    FamilyAlpine,
}

// normalizeArch converts GOARCH values to normalized architecture names.
// Only amd64 and arm64 workstations are supported.
func normalizeArch(arch string) (string, error) {
	switch arch {
	case "amd64", "x86_64":
		return "amd64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s (supported: amd64, arm64)", arch)
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps a distribution family string to a canonical family name,
// trying the distro ID as a fallback when the family itself is
// unrecognized.
func mapFamily(family, distroID string) string {
	if canonical, ok := familyMap[normalizePlatform(family)]; ok {
		return canonical
	}
	if canonical, ok := familyMap[normalizePlatform(distroID)]; ok {
		return canonical
	}

	return FamilyUnknown
}
