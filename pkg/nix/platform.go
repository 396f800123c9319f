// pkg/nix/platform.go
package nix

import (
	"fmt"
	"runtime"
)

// Platform is a nixpkgs platform double, e.g. "x86_64-linux"
type Platform string

const (
	PlatformX8664Linux    Platform = "x86_64-linux"
	PlatformI686Linux     Platform = "i686-linux"
	PlatformAarch64Linux  Platform = "aarch64-linux"
	PlatformX8664Darwin   Platform = "x86_64-darwin"
	PlatformAarch64Darwin Platform = "aarch64-darwin"
)

// AllPlatforms contains the platforms the binary cache publishes builds for
var AllPlatforms = []Platform{
	PlatformX8664Linux,
	PlatformI686Linux,
	PlatformAarch64Linux,
	PlatformX8664Darwin,
	PlatformAarch64Darwin,
}

// DetectPlatform maps the running system to its cache platform
func DetectPlatform() (Platform, error) {
	switch runtime.GOOS {
	case "linux":
		switch runtime.GOARCH {
		case "amd64":
			return PlatformX8664Linux, nil
		case "386":
			return PlatformI686Linux, nil
		case "arm64":
			return PlatformAarch64Linux, nil
		}
	case "darwin":
		switch runtime.GOARCH {
		case "amd64":
			return PlatformX8664Darwin, nil
		case "arm64":
			return PlatformAarch64Darwin, nil
		}
	}
	return "", fmt.Errorf("no binary cache platform for %s/%s", runtime.GOOS, runtime.GOARCH)
}

// String returns the string representation of the platform
func (p Platform) String() string {
	return string(p)
}

// IsValid checks if the platform is a known cache platform
func (p Platform) IsValid() bool {
	for _, valid := range AllPlatforms {
		if p == valid {
			return true
		}
	}
	return false
}
