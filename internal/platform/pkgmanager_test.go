package platform

import (
	"errors"
	"testing"
)

func TestResolvePackageManager(t *testing.T) {
	tests := []struct {
		name    string
		info    Info
		want    PackageManager
		wantErr bool
	}{
		{
			name: "Ubuntu",
			info: Info{OS: "linux", Platform: "ubuntu", Family: FamilyDebian, Version: "22.04"},
			want: ManagerApt,
		},
		{
			name: "Debian",
			info: Info{OS: "linux", Platform: "debian", Family: FamilyDebian, Version: "12"},
			want: ManagerApt,
		},
		{
			name: "Fedora",
			info: Info{OS: "linux", Platform: "fedora", Family: FamilyFedora, Version: "39"},
			want: ManagerDNF,
		},
		{
			name: "CentOS 7 uses yum",
			info: Info{OS: "linux", Platform: "centos", Family: FamilyRHEL, Version: "7.9"},
			want: ManagerYum,
		},
		{
			name: "Rocky 9 uses dnf",
			info: Info{OS: "linux", Platform: "rocky", Family: FamilyRHEL, Version: "9.3"},
			want: ManagerDNF,
		},
		{
			name: "RHEL without version uses dnf",
			info: Info{OS: "linux", Platform: "rhel", Family: FamilyRHEL},
			want: ManagerDNF,
		},
		{
			name: "Arch",
			info: Info{OS: "linux", Platform: "arch", Family: FamilyArch},
			want: ManagerPacman,
		},
		{
			name: "Alpine",
			info: Info{OS: "linux", Platform: "alpine", Family: FamilyAlpine, Version: "3.19"},
			want: ManagerAPK,
		},
		{
			name: "openSUSE",
			info: Info{OS: "linux", Platform: "opensuse-leap", Family: FamilySUSE},
			want: ManagerZypper,
		},
		{
			name: "macOS",
			info: Info{OS: "darwin", Arch: "arm64"},
			want: ManagerBrew,
		},
		{
			name:    "Unknown Linux family",
			info:    Info{OS: "linux", Platform: "nixos", Family: FamilyUnknown},
			want:    ManagerUnknown,
			wantErr: true,
		},
		{
			name:    "Distro detection failed",
			info:    Info{OS: "linux"},
			want:    ManagerUnknown,
			wantErr: true,
		},
		{
			name:    "Windows",
			info:    Info{OS: "windows"},
			want:    ManagerUnknown,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePackageManager(&tt.info)
			if (err != nil) != tt.wantErr {
				t.Errorf("ResolvePackageManager() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ResolvePackageManager() = %v, want %v", got, tt.want)
			}
			if tt.wantErr {
				var unsupported *UnsupportedPlatformError
				if !errors.As(err, &unsupported) {
					t.Errorf("Expected *UnsupportedPlatformError, got %T", err)
				}
			}
		})
	}
}

func TestPackageManager_String(t *testing.T) {
	tests := []struct {
		manager PackageManager
		want    string
	}{
		{ManagerApt, "apt-get"},
		{ManagerDNF, "dnf"},
		{ManagerYum, "yum"},
		{ManagerPacman, "pacman"},
		{ManagerAPK, "apk"},
		{ManagerZypper, "zypper"},
		{ManagerBrew, "brew"},
		{ManagerUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.manager.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMajorVersion(t *testing.T) {
	tests := []struct {
		version string
		want    int
	}{
		{"7.9", 7},
		{"22.04", 22},
		{"9", 9},
		{"", 0},
		{"rolling", 0},
	}

	for _, tt := range tests {
		if got := majorVersion(tt.version); got != tt.want {
			t.Errorf("majorVersion(%q) = %d, want %d", tt.version, got, tt.want)
		}
	}
}
