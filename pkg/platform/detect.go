// pkg/platform/detect.go
package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Platform describes the host and which package sources can serve it
type Platform struct {
	OS        string   // linux, darwin
	Arch      string   // amd64, arm64, 386
	Available []string // Usable package sources
	Preferred string   // Source picked when none is configured
}

// systemLibDirs are checked to decide whether the local source can work
var systemLibDirs = []string{
	"/usr/lib",
	"/usr/lib64",
	"/usr/local/lib",
	"/opt/homebrew/lib",
}

// Detect inspects the host and reports the usable package sources.
// The nix binary cache needs nothing installed locally, so it is available
// whenever the platform has published builds; the local source needs at
// least one standard library directory.
func Detect() (*Platform, error) {
	p := &Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	switch p.OS {
	case "linux", "darwin":
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", p.OS)
	}

	p.Available = append(p.Available, "nix")
	if hasSystemLibDir() {
		p.Available = append(p.Available, "local")
	}

	p.Preferred = p.Available[0]

	return p, nil
}

// Supports reports whether the named source is available on this host
func (p *Platform) Supports(source string) bool {
	for _, s := range p.Available {
		if s == source {
			return true
		}
	}
	return false
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s (available: %v, preferred: %s)",
		p.OS, p.Arch, p.Available, p.Preferred)
}

func hasSystemLibDir() bool {
	for _, dir := range systemLibDirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
