package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEntry(t *testing.T, cacheDir, name, content string) {
	t.Helper()
	dir := filepath.Join(cacheDir, "deps", name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.toml"), []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	cacheDir := t.TempDir()
	writeEntry(t, cacheDir, "libGL", `
name = "libGL"
libs = ["lib"]

[sources]
nix = "libglvnd"
local = "GL"
`)

	r := New(cacheDir)
	require.True(t, r.Synced())

	entry, err := r.Load("libGL")
	require.NoError(t, err)
	assert.Equal(t, "libGL", entry.Name)
	assert.Equal(t, []string{"lib"}, entry.LibDirs())
	assert.Equal(t, "libglvnd", entry.Sources["nix"])
}

func TestLoad_NotExist(t *testing.T) {
	r := New(t.TempDir())
	assert.False(t, r.Synced())

	_, err := r.Load("vlc")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_Malformed(t *testing.T) {
	cacheDir := t.TempDir()
	writeEntry(t, cacheDir, "broken", "name = [not toml")

	_, err := New(cacheDir).Load("broken")
	require.Error(t, err)
	assert.False(t, os.IsNotExist(err))
}

func TestResolve(t *testing.T) {
	cacheDir := t.TempDir()
	writeEntry(t, cacheDir, "libGL", `
name = "libGL"

[sources]
nix = "libglvnd"
`)

	r := New(cacheDir)

	resolved, err := r.Resolve("libGL", "nix")
	require.NoError(t, err)
	assert.Equal(t, "libglvnd", resolved)

	// A source without a mapping falls through to the canonical name
	resolved, err = r.Resolve("libGL", "local")
	require.NoError(t, err)
	assert.Equal(t, "libGL", resolved)

	// Unregistered packages pass through unchanged
	resolved, err = r.Resolve("vlc", "nix")
	require.NoError(t, err)
	assert.Equal(t, "vlc", resolved)
}

func TestLibDirs_Default(t *testing.T) {
	entry := &Entry{Name: "wayland"}
	assert.Equal(t, []string{"lib"}, entry.LibDirs())

	entry.Libs = []string{"lib", "lib64"}
	assert.Equal(t, []string{"lib", "lib64"}, entry.LibDirs())
}

func TestList(t *testing.T) {
	cacheDir := t.TempDir()
	writeEntry(t, cacheDir, "wayland", `name = "wayland"`)
	writeEntry(t, cacheDir, "libGL", `name = "libGL"`)

	names, err := New(cacheDir).List()
	require.NoError(t, err)
	assert.Equal(t, []string{"libGL", "wayland"}, names)
}

func TestList_NotSynced(t *testing.T) {
	names, err := New(t.TempDir()).List()
	require.NoError(t, err)
	assert.Nil(t, names)
}
