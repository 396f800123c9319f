// pkg/registry/registry.go
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// Entry is one deps/<name>/index.toml file: the canonical metadata for a
// package. Libs lists the library subdirectories the package contributes to
// a search path (default "lib"). Sources maps a package source to the name
// the package goes by there, e.g. sources.nix = "libglvnd".
type Entry struct {
	Name    string            `toml:"name"`
	Libs    []string          `toml:"libs"`
	Sources map[string]string `toml:"sources"`
}

// LibDirs returns the library subdirectories for the package, defaulting to
// a single "lib" when the entry declares none.
func (e *Entry) LibDirs() []string {
	if len(e.Libs) == 0 {
		return []string{"lib"}
	}
	return e.Libs
}

// Registry provides lookup into the synced deps/ folder
type Registry struct {
	depsDir string
}

// New creates a Registry pointed at the cached deps directory
func New(cacheDir string) *Registry {
	return &Registry{
		depsDir: filepath.Join(cacheDir, "deps"),
	}
}

// Resolve maps a canonical package name to its name under the given source.
// Unknown packages pass through unchanged: the registry only exists for
// packages whose source name differs from the canonical one.
func (r *Registry) Resolve(name, source string) (string, error) {
	entry, err := r.Load(name)
	if err != nil {
		if os.IsNotExist(err) {
			return name, nil
		}
		return "", err
	}

	resolved, ok := entry.Sources[source]
	if !ok {
		return name, nil
	}

	return resolved, nil
}

// Load reads and parses deps/<name>/index.toml.
// Returns an error satisfying os.IsNotExist when the package has no entry.
func (r *Registry) Load(name string) (*Entry, error) {
	path := filepath.Join(r.depsDir, name, "index.toml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("registry: reading %s: %w", path, err)
	}

	var entry Entry
	if err := toml.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("registry: parsing entry for %q: %w", name, err)
	}
	if entry.Name == "" {
		entry.Name = name
	}

	return &entry, nil
}

// List returns the names of all registered packages, sorted
func (r *Registry) List() ([]string, error) {
	entries, err := os.ReadDir(r.depsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("registry: reading deps directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// Synced reports whether a deps tree is present at all
func (r *Registry) Synced() bool {
	info, err := os.Stat(r.depsDir)
	return err == nil && info.IsDir()
}
