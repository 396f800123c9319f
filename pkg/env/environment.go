// pkg/env/environment.go
package env

import (
	"runtime"
	"sort"
	"strings"
)

// LibraryPathVar returns the variable the dynamic linker consults on this
// system.
func LibraryPathVar() string {
	if runtime.GOOS == "darwin" {
		return "DYLD_LIBRARY_PATH"
	}
	return "LD_LIBRARY_PATH"
}

// Build assembles an environment from library directories in declared order.
// Directories appearing more than once are marked as duplicates but kept:
// the search path must contain exactly what the descriptor declares.
func Build(name string, entries []PathEntry, extra map[string]string) *Environment {
	first := make(map[string]int, len(entries))

	for i := range entries {
		entries[i].Index = i
		if prev, seen := first[entries[i].Dir]; seen {
			entries[i].Duplicate = true
			entries[i].DuplicateOf = prev
			continue
		}
		first[entries[i].Dir] = i
	}

	return &Environment{
		Name:    name,
		Entries: entries,
		Extra:   extra,
	}
}

// SearchPath returns the colon-joined library search path, every entry in
// declared order, duplicates included.
func (e *Environment) SearchPath() string {
	dirs := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		dirs[i] = entry.Dir
	}
	return strings.Join(dirs, ":")
}

// Duplicates returns the entries marked as duplicate declarations
func (e *Environment) Duplicates() []PathEntry {
	var dups []PathEntry
	for _, entry := range e.Entries {
		if entry.Duplicate {
			dups = append(dups, entry)
		}
	}
	return dups
}

// Vars returns every variable the environment exports. The map includes the
// extra descriptor variables and, when the path is non-empty, the library
// search path variable.
func (e *Environment) Vars() map[string]string {
	vars := make(map[string]string, len(e.Extra)+1)
	for k, v := range e.Extra {
		vars[k] = v
	}
	if len(e.Entries) > 0 {
		vars[LibraryPathVar()] = e.SearchPath()
	}
	return vars
}

// VarNames returns the exported variable names in a stable sorted order, so
// rendered output is byte-identical between runs.
func (e *Environment) VarNames() []string {
	vars := e.Vars()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
