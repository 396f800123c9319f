// pkg/source/types.go
package source

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Type names a package source
type Type string

const (
	// TypeNix resolves through the nix binary cache
	TypeNix Type = "nix"
	// TypeLocal resolves against libraries already on the host
	TypeLocal Type = "local"
	// TypeAuto picks the best source for the host
	TypeAuto Type = "auto"
)

// Source resolves package identifiers to concrete store objects and
// materializes them on disk. Resolution and materialization are separate so
// an environment can verify every package resolves before anything is
// fetched.
type Source interface {
	// Name returns the source name
	Name() string

	// Resolve maps a package identifier to a resolved package without
	// fetching anything
	Resolve(ctx context.Context, name string) (*ResolvedPackage, error)

	// Materialize makes the resolved package available at its Root
	Materialize(ctx context.Context, pkg *ResolvedPackage) error

	// Close cleans up resources
	Close() error
}

// ResolvedPackage is the outcome of resolving one package identifier
type ResolvedPackage struct {
	Name        string // Identifier as declared in the descriptor
	SourceName  string // Identifier under the source, after registry mapping
	NameVersion string // e.g. "vlc-3.0.20"
	Hash        string // Store hash, when the source has one
	Root        string // Directory the package lives under once materialized

	// LibDir is the exact directory holding the package's libraries, when
	// the source pins one. It overrides the registry layout during search
	// path assembly; hosts keeping libraries under lib64 would otherwise
	// get a Root/lib entry that does not exist.
	LibDir string
}

// Config holds configuration shared by all sources
type Config struct {
	// StorePath is where fetched packages are extracted
	StorePath string

	// CachePath holds the synced registry and other cached state
	CachePath string

	// Timeout for network operations
	Timeout time.Duration

	// Debug enables debug logging
	Debug bool

	// Logger for custom logging
	Logger *log.Logger

	// Nix-specific configuration
	Nix *NixConfig
}

// NixConfig holds binary cache specific configuration
type NixConfig struct {
	CacheURL string // Default: https://cache.nixos.org
	HydraURL string // Default: https://hydra.nixos.org
	Jobset   string // Default: nixos/trunk-combined
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}

	return &Config{
		StorePath: filepath.Join(home, ".cache", "denv", "store"),
		CachePath: filepath.Join(home, ".cache", "denv"),
		Timeout:   2 * time.Minute,
		Nix:       &NixConfig{},
	}
}
