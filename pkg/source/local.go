// pkg/source/local.go
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/denv-tool/denv/pkg/env"
)

// defaultSearchDirs are the host directories the local source resolves
// against, in priority order.
var defaultSearchDirs = []string{
	"/usr/local/lib",
	"/usr/lib64",
	"/usr/lib",
	"/opt/homebrew/lib",
	"/lib",
}

// LocalSource resolves packages against libraries already installed on the
// host. It exists for machines where the binary cache is unreachable; there
// is nothing to fetch, so Materialize only re-checks presence.
type LocalSource struct {
	searchDirs []string
}

// NewLocalSource creates a local source. When dirs is empty the standard
// system library directories are used.
func NewLocalSource(dirs []string) *LocalSource {
	if len(dirs) == 0 {
		dirs = existingDirs(defaultSearchDirs)
	}
	return &LocalSource{searchDirs: dirs}
}

// Name returns the source name
func (s *LocalSource) Name() string {
	return string(TypeLocal)
}

// Resolve finds the shared library for a package on the host. The directory
// the library was found in is pinned as LibDir, so search path assembly uses
// it verbatim whether the host keeps libraries under lib, lib64 or anything
// else.
func (s *LocalSource) Resolve(ctx context.Context, name string) (*ResolvedPackage, error) {
	lib := env.FindSharedLibrary(s.searchDirs, name)
	if lib == nil {
		return nil, fmt.Errorf("library %q not found in %v", name, s.searchDirs)
	}

	dir := filepath.Dir(lib.Path)

	return &ResolvedPackage{
		Name:        name,
		SourceName:  name,
		NameVersion: filepath.Base(lib.Path),
		Root:        filepath.Dir(dir),
		LibDir:      dir,
	}, nil
}

// Materialize verifies the resolved library is still present
func (s *LocalSource) Materialize(ctx context.Context, pkg *ResolvedPackage) error {
	if _, err := os.Stat(pkg.Root); err != nil {
		return fmt.Errorf("package root %s vanished: %w", pkg.Root, err)
	}
	return nil
}

// Close cleans up resources
func (s *LocalSource) Close() error {
	return nil
}

func existingDirs(dirs []string) []string {
	var out []string
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			out = append(out, dir)
		}
	}
	return out
}
