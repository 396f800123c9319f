package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Clean(t *testing.T) {
	m := &Manifest{
		Name:        "player",
		Packages:    []string{"vlc", "libGL", "wayland"},
		LibraryPath: []string{"libGL", "wayland"},
	}

	warnings, err := m.Validate()
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

// Duplicate declarations are a candidate defect with ambiguous intent: they
// must surface as warnings and must not be removed from the lists.
func TestValidate_DuplicatesFlaggedNotDropped(t *testing.T) {
	m := &Manifest{
		Name:        "player",
		Packages:    []string{"vlc", "libGL", "libX11", "libGL", "libX11"},
		LibraryPath: []string{"libGL", "libX11", "libGL"},
	}

	warnings, err := m.Validate()
	require.NoError(t, err)
	require.Len(t, warnings, 3)

	assert.Equal(t, Warning{Field: "packages", Value: "libGL", Index: 3, DuplicateOf: 1}, warnings[0])
	assert.Equal(t, Warning{Field: "packages", Value: "libX11", Index: 4, DuplicateOf: 2}, warnings[1])
	assert.Equal(t, Warning{Field: "libraryPath", Value: "libGL", Index: 2, DuplicateOf: 0}, warnings[2])

	// The lists themselves stay exactly as declared
	assert.Equal(t, []string{"vlc", "libGL", "libX11", "libGL", "libX11"}, m.Packages)
	assert.Equal(t, []string{"libGL", "libX11", "libGL"}, m.LibraryPath)

	assert.Contains(t, warnings[2].String(), `duplicate entry "libGL"`)
}

func TestValidate_NoPackages(t *testing.T) {
	m := &Manifest{Name: "empty"}

	_, err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no packages")
}

func TestValidate_EmptyEntry(t *testing.T) {
	m := &Manifest{Packages: []string{"vlc", ""}}

	_, err := m.Validate()
	require.Error(t, err)
}

func TestValidate_UndeclaredLibraryPathEntry(t *testing.T) {
	m := &Manifest{
		Packages:    []string{"vlc"},
		LibraryPath: []string{"libGL"},
	}

	_, err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a declared package")
}
