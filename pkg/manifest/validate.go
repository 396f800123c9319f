// pkg/manifest/validate.go
package manifest

import "fmt"

// Warning reports a suspicious but non-fatal declaration, such as a package
// listed twice. Duplicates are reported, never dropped: whether a repeated
// entry is intentional cannot be decided here, and the assembled search path
// must reflect the descriptor exactly.
type Warning struct {
	Field       string // "packages" or "libraryPath"
	Value       string // the duplicated entry
	Index       int    // position of this occurrence
	DuplicateOf int    // position of the first occurrence
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: duplicate entry %q at position %d (first declared at position %d)",
		w.Field, w.Value, w.Index, w.DuplicateOf)
}

// Validate checks the descriptor for fatal problems and returns warnings for
// the non-fatal ones.
//
// Fatal: no packages declared, empty entries, libraryPath entries that do not
// reference a declared package.
// Warnings: duplicate entries in packages or libraryPath.
func (m *Manifest) Validate() ([]Warning, error) {
	if len(m.Packages) == 0 {
		return nil, fmt.Errorf("descriptor declares no packages")
	}

	for i, p := range m.Packages {
		if p == "" {
			return nil, fmt.Errorf("packages: empty entry at position %d", i)
		}
	}
	for i, p := range m.LibraryPath {
		if p == "" {
			return nil, fmt.Errorf("libraryPath: empty entry at position %d", i)
		}
		if !m.HasPackage(p) {
			return nil, fmt.Errorf("libraryPath: %q at position %d is not a declared package", p, i)
		}
	}

	var warnings []Warning
	warnings = append(warnings, findDuplicates("packages", m.Packages)...)
	warnings = append(warnings, findDuplicates("libraryPath", m.LibraryPath)...)

	return warnings, nil
}

func findDuplicates(field string, entries []string) []Warning {
	var warnings []Warning
	first := make(map[string]int)

	for i, e := range entries {
		if prev, seen := first[e]; seen {
			warnings = append(warnings, Warning{
				Field:       field,
				Value:       e,
				Index:       i,
				DuplicateOf: prev,
			})
			continue
		}
		first[e] = i
	}

	return warnings
}
