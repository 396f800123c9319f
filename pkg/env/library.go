// pkg/env/library.go
package env

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SharedLibraryExtensions returns the shared library extensions for this OS
func SharedLibraryExtensions() []string {
	if runtime.GOOS == "darwin" {
		return []string{".dylib"}
	}
	return []string{".so"}
}

// FindSharedLibrary searches the given directories, in order, for a shared
// library named lib<name><ext>, also matching versioned files such as
// libvlc.so.5. The first hit wins, mirroring how the dynamic linker walks a
// search path.
func FindSharedLibrary(dirs []string, name string) *Library {
	for _, dir := range dirs {
		for _, ext := range SharedLibraryExtensions() {
			filename := "lib" + name + ext
			full := filepath.Join(dir, filename)

			if fileExists(full) {
				return &Library{Name: name, Path: full, Type: ext}
			}

			matches, _ := filepath.Glob(filepath.Join(dir, filename+".*"))
			if len(matches) > 0 {
				return &Library{Name: name, Path: matches[0], Type: ext}
			}
		}
	}

	return nil
}

// ListLibraries returns every shared library in a directory, one entry per
// library name.
func ListLibraries(dir string) []Library {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var libs []Library
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		for _, ext := range SharedLibraryExtensions() {
			if !strings.HasSuffix(name, ext) && !strings.Contains(name, ext+".") {
				continue
			}

			libName := strings.TrimPrefix(name, "lib")
			libName, _, _ = strings.Cut(libName, ".")
			if libName == "" || seen[libName] {
				break
			}
			seen[libName] = true

			libs = append(libs, Library{
				Name: libName,
				Path: filepath.Join(dir, name),
				Type: ext,
			})
			break
		}
	}

	return libs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
