// pkg/env/types.go
package env

// PathEntry is one directory in the assembled library search path.
// Duplicate marks entries whose directory already appeared earlier in the
// path; they stay in place, the declared list is authoritative.
type PathEntry struct {
	Package     string // Package the directory belongs to
	Dir         string // Absolute library directory
	Index       int    // Position in the assembled path
	Duplicate   bool   // True if an earlier entry has the same directory
	DuplicateOf int    // Index of the first occurrence when Duplicate
}

// Environment is a materialized shell environment: an ordered library search
// path plus verbatim extra variables from the descriptor.
type Environment struct {
	Name    string
	Entries []PathEntry
	Extra   map[string]string
}

// Library is a shared or static library found on disk
type Library struct {
	Name   string // Library name without prefix/extension (e.g. "vlc")
	Path   string // Absolute path to the library file
	Type   string // Extension: ".so", ".dylib", ".a"
	Static bool
}
