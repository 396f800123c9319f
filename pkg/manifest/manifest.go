// pkg/manifest/manifest.go
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the descriptor file denv looks for in a project directory
const DefaultFileName = "denv.yaml"

// altFileNames are accepted alternatives, checked in order after DefaultFileName
var altFileNames = []string{".denv.yaml", "denv.yml"}

// Manifest is the declarative environment descriptor.
// Packages is a set (resolution order does not matter); LibraryPath is an
// ordered list of package references whose library directories make up the
// dynamic-linker search path, earlier entries taking priority.
type Manifest struct {
	Name        string            `yaml:"name"`
	Packages    []string          `yaml:"packages"`
	LibraryPath []string          `yaml:"libraryPath"`
	Env         map[string]string `yaml:"env,omitempty"`
}

// Load reads and parses a descriptor file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("descriptor not found: %s", path)
		}
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing descriptor %s: %w", path, err)
	}

	if m.Name == "" {
		m.Name = filepath.Base(filepath.Dir(absOrClean(path)))
	}

	return &m, nil
}

// Find locates the descriptor file in a project directory.
// Returns the path of the first candidate that exists.
func Find(dir string) (string, error) {
	candidates := append([]string{DefaultFileName}, altFileNames...)

	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no %s found in %s", DefaultFileName, dir)
}

// LoadDir finds and loads the descriptor for a project directory
func LoadDir(dir string) (*Manifest, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// HasPackage reports whether name is declared in Packages
func (m *Manifest) HasPackage(name string) bool {
	for _, p := range m.Packages {
		if p == name {
			return true
		}
	}
	return false
}

func absOrClean(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
