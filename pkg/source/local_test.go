package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denv-tool/denv/pkg/env"
)

// fakeLibTree creates <root>/lib with the named shared libraries and returns
// root and the lib directory.
func fakeLibTree(t *testing.T, names ...string) (string, string) {
	t.Helper()
	root := t.TempDir()
	libDir := filepath.Join(root, "lib")
	require.NoError(t, os.MkdirAll(libDir, 0755))

	ext := env.SharedLibraryExtensions()[0]
	for _, name := range names {
		path := filepath.Join(libDir, "lib"+name+ext)
		require.NoError(t, os.WriteFile(path, []byte{0x7f}, 0644))
	}

	return root, libDir
}

func TestLocalSourceResolve(t *testing.T) {
	root, libDir := fakeLibTree(t, "vlc")
	src := NewLocalSource([]string{libDir})

	pkg, err := src.Resolve(context.Background(), "vlc")
	require.NoError(t, err)

	assert.Equal(t, "vlc", pkg.Name)
	assert.Equal(t, root, pkg.Root, "root must be the parent of the lib directory")
	assert.NoError(t, src.Materialize(context.Background(), pkg))
	assert.NoError(t, src.Close())
}

// Hosts keeping libraries under lib64 must yield that exact directory, not
// a Root/lib guess.
func TestLocalSourceResolve_Lib64Layout(t *testing.T) {
	root := t.TempDir()
	libDir := filepath.Join(root, "lib64")
	require.NoError(t, os.MkdirAll(libDir, 0755))

	ext := env.SharedLibraryExtensions()[0]
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "libvlc"+ext), []byte{0x7f}, 0644))

	src := NewLocalSource([]string{libDir})

	pkg, err := src.Resolve(context.Background(), "vlc")
	require.NoError(t, err)
	assert.Equal(t, root, pkg.Root)
	assert.Equal(t, libDir, pkg.LibDir, "the directory the library was found in is pinned")
}

func TestLocalSourceResolve_NotFound(t *testing.T) {
	_, libDir := fakeLibTree(t)
	src := NewLocalSource([]string{libDir})

	_, err := src.Resolve(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing" not found`)
}

func TestLocalSourceResolve_FirstDirWins(t *testing.T) {
	rootA, libA := fakeLibTree(t, "GL")
	_, libB := fakeLibTree(t, "GL")

	src := NewLocalSource([]string{libA, libB})

	pkg, err := src.Resolve(context.Background(), "GL")
	require.NoError(t, err)
	assert.Equal(t, rootA, pkg.Root)
}

func TestLocalSourceMaterialize_RootVanished(t *testing.T) {
	root, libDir := fakeLibTree(t, "vlc")
	src := NewLocalSource([]string{libDir})

	pkg, err := src.Resolve(context.Background(), "vlc")
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(root))
	assert.Error(t, src.Materialize(context.Background(), pkg))
}

func TestLocalSourceName(t *testing.T) {
	assert.Equal(t, "local", NewLocalSource(nil).Name())
}
