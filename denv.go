// denv.go
package denv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/denv-tool/denv/pkg/env"
	"github.com/denv-tool/denv/pkg/index"
	"github.com/denv-tool/denv/pkg/manifest"
	"github.com/denv-tool/denv/pkg/platform"
	"github.com/denv-tool/denv/pkg/registry"
	"github.com/denv-tool/denv/pkg/source"
)

// Re-export the types callers need for convenience
type (
	SourceType      = source.Type
	Config          = source.Config
	ResolvedPackage = source.ResolvedPackage
	Manifest        = manifest.Manifest
	Warning         = manifest.Warning
	Environment     = env.Environment
	// RegistryEntry is the metadata for a package from the deps/ registry
	RegistryEntry = registry.Entry
)

// Re-export source constants
const (
	SourceNix   = source.TypeNix
	SourceLocal = source.TypeLocal
	SourceAuto  = source.TypeAuto
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return source.DefaultConfig()
}

// Manager constructs shell environments from declarative descriptors
type Manager struct {
	source   source.Source
	config   *source.Config
	registry *registry.Registry
}

// NewManager creates a manager backed by the given package source
func NewManager(sourceType SourceType, config *Config) (*Manager, error) {
	if config == nil {
		config = source.DefaultConfig()
	}
	if config.CachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			config.CachePath = filepath.Join(os.TempDir(), "denv")
		} else {
			config.CachePath = filepath.Join(home, ".cache", "denv")
		}
	}

	var src source.Source
	var err error

	switch sourceType {
	case source.TypeNix, source.TypeLocal:
		plat, perr := platform.Detect()
		if perr != nil {
			return nil, perr
		}
		if !plat.Supports(string(sourceType)) {
			return nil, fmt.Errorf("%w: %s source on %s/%s", ErrSourceNotAvailable, sourceType, plat.OS, plat.Arch)
		}
		if sourceType == source.TypeNix {
			src, err = source.NewNixSource(config)
		} else {
			src = source.NewLocalSource(nil)
		}
	case source.TypeAuto:
		src, err = autoDetectSource(config)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing source: %w", err)
	}

	return &Manager{
		source:   src,
		config:   config,
		registry: registry.New(config.CachePath),
	}, nil
}

// autoDetectSource picks the preferred source for this host
func autoDetectSource(config *source.Config) (source.Source, error) {
	plat, err := platform.Detect()
	if err != nil {
		return nil, err
	}

	switch plat.Preferred {
	case "nix":
		return source.NewNixSource(config)
	case "local":
		return source.NewLocalSource(nil), nil
	}

	return nil, fmt.Errorf("%w: no package source for %s", ErrSourceNotAvailable, plat)
}

// Construct builds the shell environment for a project directory: load the
// descriptor, resolve every package, materialize, assemble the search path.
//
// Resolution is all-or-nothing. Every package must resolve before anything
// is fetched; the first failure aborts construction with nothing
// materialized. A valid snapshot short-circuits resolution so repeated
// entries produce byte-identical output.
func (m *Manager) Construct(ctx context.Context, dir string) (*Environment, []Warning, error) {
	man, err := manifest.LoadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}

	warnings, err := man.Validate()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}

	resolved, fresh, err := m.resolveOrReuse(ctx, dir, man)
	if err != nil {
		return nil, warnings, err
	}

	for _, pkg := range man.Packages {
		if err := m.source.Materialize(ctx, resolved[pkg]); err != nil {
			return nil, warnings, &Error{Op: "materialize", Package: pkg, Err: err}
		}
	}

	environment := m.buildEnvironment(man, resolved)

	if fresh {
		snap := env.NewSnapshot(man.Name, m.source.Name())
		for pkg, rp := range resolved {
			snap.Pin(pkg, env.LockedPackage{
				NameVersion: rp.NameVersion,
				Hash:        rp.Hash,
				Root:        rp.Root,
				LibDir:      rp.LibDir,
			})
		}
		if err := env.WriteSnapshot(dir, snap); err != nil {
			return nil, warnings, err
		}
	}

	return environment, warnings, nil
}

// resolveOrReuse returns resolved packages for the descriptor, preferring a
// snapshot that covers every declared package. fresh reports whether a new
// resolution happened and a snapshot should be written.
func (m *Manager) resolveOrReuse(ctx context.Context, dir string, man *Manifest) (map[string]*ResolvedPackage, bool, error) {
	snap, err := env.LoadSnapshot(dir)
	if err == nil && snap.Source == m.source.Name() && snap.Covers(man.Packages) {
		resolved := make(map[string]*ResolvedPackage, len(man.Packages))
		usable := true
		for _, pkg := range man.Packages {
			locked := snap.Packages[pkg]
			if _, statErr := os.Stat(locked.Root); statErr != nil {
				// Store was pruned since the snapshot; resolve again
				usable = false
				break
			}
			resolved[pkg] = &ResolvedPackage{
				Name:        pkg,
				SourceName:  pkg,
				NameVersion: locked.NameVersion,
				Hash:        locked.Hash,
				Root:        locked.Root,
				LibDir:      locked.LibDir,
			}
		}
		if usable {
			return resolved, false, nil
		}
	}

	resolved, err := m.ResolveAll(ctx, man)
	if err != nil {
		return nil, false, err
	}
	return resolved, true, nil
}

// ResolveAll resolves every declared package without materializing anything.
// The first failure aborts immediately: partial environments are never
// constructed.
func (m *Manager) ResolveAll(ctx context.Context, man *Manifest) (map[string]*ResolvedPackage, error) {
	resolved := make(map[string]*ResolvedPackage, len(man.Packages))

	for _, pkg := range man.Packages {
		if _, ok := resolved[pkg]; ok {
			// Duplicate declaration; resolve once
			continue
		}

		name, err := m.registry.Resolve(pkg, m.source.Name())
		if err != nil {
			return nil, &Error{Op: "resolve", Package: pkg, Err: err}
		}

		rp, err := m.source.Resolve(ctx, name)
		if err != nil {
			return nil, &Error{Op: "resolve", Package: pkg, Err: fmt.Errorf("%w: %v", ErrPackageNotFound, err)}
		}

		rp.Name = pkg
		rp.SourceName = name
		resolved[pkg] = rp
	}

	return resolved, nil
}

// buildEnvironment assembles the search path entries in declared order. A
// source that pinned the exact library directory wins; otherwise each entry
// contributes the package's library directories per its registry entry,
// defaulting to "lib". Duplicates are preserved and marked.
func (m *Manager) buildEnvironment(man *Manifest, resolved map[string]*ResolvedPackage) *Environment {
	var entries []env.PathEntry

	for _, pkg := range man.LibraryPath {
		rp := resolved[pkg]

		if rp.LibDir != "" {
			entries = append(entries, env.PathEntry{Package: pkg, Dir: rp.LibDir})
			continue
		}

		libDirs := []string{"lib"}
		if entry, err := m.registry.Load(pkg); err == nil {
			libDirs = entry.LibDirs()
		}

		for _, libDir := range libDirs {
			entries = append(entries, env.PathEntry{
				Package: pkg,
				Dir:     filepath.Join(rp.Root, libDir),
			})
		}
	}

	return env.Build(man.Name, entries, man.Env)
}

// Info returns the registry entry and source resolution for one package
func (m *Manager) Info(ctx context.Context, name string) (*RegistryEntry, *ResolvedPackage, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("package name is required")
	}

	entry, err := m.registry.Load(name)
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, err
	}

	sourceName, err := m.registry.Resolve(name, m.source.Name())
	if err != nil {
		return entry, nil, err
	}

	rp, err := m.source.Resolve(ctx, sourceName)
	if err != nil {
		return entry, nil, &Error{Op: "resolve", Package: name, Err: err}
	}
	rp.Name = name
	rp.SourceName = sourceName

	return entry, rp, nil
}

// Sync refreshes the registry/index tree
func (m *Manager) Sync() error {
	return index.Sync(m.config.CachePath)
}

// Registry returns the package registry
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// Source returns the name of the active package source
func (m *Manager) Source() string {
	return m.source.Name()
}

// Close cleans up any resources used by the manager
func (m *Manager) Close() error {
	return m.source.Close()
}
