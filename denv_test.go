package denv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denv-tool/denv/pkg/env"
	"github.com/denv-tool/denv/pkg/registry"
	"github.com/denv-tool/denv/pkg/source"
)

// fixture builds a manager backed by the local source over a fake library
// tree, plus a project directory with a descriptor.
type fixture struct {
	mgr     *Manager
	project string
	roots   map[string]string // package -> materialized root
}

func newFixture(t *testing.T, descriptor string, libs ...string) *fixture {
	t.Helper()

	// One root per package so search path entries are distinguishable
	ext := env.SharedLibraryExtensions()[0]
	roots := make(map[string]string)
	var searchDirs []string
	for _, name := range libs {
		root := t.TempDir()
		libDir := filepath.Join(root, "lib")
		require.NoError(t, os.MkdirAll(libDir, 0755))
		path := filepath.Join(libDir, "lib"+name+ext)
		require.NoError(t, os.WriteFile(path, []byte{0x7f}, 0644))
		roots[name] = root
		searchDirs = append(searchDirs, libDir)
	}

	cfg := DefaultConfig()
	cfg.CachePath = t.TempDir()

	mgr := &Manager{
		source:   source.NewLocalSource(searchDirs),
		config:   cfg,
		registry: registry.New(cfg.CachePath),
	}

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "denv.yaml"), []byte(descriptor), 0644))

	return &fixture{mgr: mgr, project: project, roots: roots}
}

func TestConstruct(t *testing.T) {
	f := newFixture(t, `
name: player
packages:
  - vlc
  - GL
  - xkbcommon
libraryPath:
  - GL
  - xkbcommon
env:
  PLAYER_DB_LOCATION: ./.playerdb
`, "vlc", "GL", "xkbcommon")

	environment, warnings, err := f.mgr.Construct(context.Background(), f.project)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	glLib := filepath.Join(f.roots["GL"], "lib")
	xkbLib := filepath.Join(f.roots["xkbcommon"], "lib")
	assert.Equal(t, glLib+":"+xkbLib, environment.SearchPath(),
		"entries appear in declared order, colon-joined")
	assert.Equal(t, "./.playerdb", environment.Extra["PLAYER_DB_LOCATION"])

	// A snapshot pinning every package is written next to the descriptor
	snap, err := env.LoadSnapshot(f.project)
	require.NoError(t, err)
	assert.Equal(t, "player", snap.Name)
	assert.Equal(t, "local", snap.Source)
	assert.True(t, snap.Covers([]string{"vlc", "GL", "xkbcommon"}))
}

// Entering the same environment twice must produce byte-identical output.
func TestConstruct_Idempotent(t *testing.T) {
	f := newFixture(t, `
name: player
packages: [vlc, GL]
libraryPath: [GL]
`, "vlc", "GL")

	ctx := context.Background()

	first, _, err := f.mgr.Construct(ctx, f.project)
	require.NoError(t, err)

	second, _, err := f.mgr.Construct(ctx, f.project)
	require.NoError(t, err)

	assert.Equal(t, first.SearchPath(), second.SearchPath())

	s1, err := env.ExportScript(first, env.FormatSh)
	require.NoError(t, err)
	s2, err := env.ExportScript(second, env.FormatSh)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

// Duplicate declarations survive into the search path and come back as
// warnings; nothing is deduplicated on the way through.
func TestConstruct_DuplicatesPreserved(t *testing.T) {
	f := newFixture(t, `
name: player
packages: [GL, xkbcommon]
libraryPath: [GL, xkbcommon, GL]
`, "GL", "xkbcommon")

	environment, warnings, err := f.mgr.Construct(context.Background(), f.project)
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, "libraryPath", warnings[0].Field)
	assert.Equal(t, "GL", warnings[0].Value)

	glLib := filepath.Join(f.roots["GL"], "lib")
	xkbLib := filepath.Join(f.roots["xkbcommon"], "lib")
	assert.Equal(t, glLib+":"+xkbLib+":"+glLib, environment.SearchPath())

	dups := environment.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, "GL", dups[0].Package)
	assert.Equal(t, 2, dups[0].Index)
	assert.Equal(t, 0, dups[0].DuplicateOf)
}

// Libraries living under lib64 must end up in the search path under their
// real directory, on first entry and on snapshot re-entry alike.
func TestConstruct_Lib64Layout(t *testing.T) {
	ext := env.SharedLibraryExtensions()[0]
	root := t.TempDir()
	lib64 := filepath.Join(root, "lib64")
	require.NoError(t, os.MkdirAll(lib64, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(lib64, "libvlc"+ext), []byte{0x7f}, 0644))

	cfg := DefaultConfig()
	cfg.CachePath = t.TempDir()
	mgr := &Manager{
		source:   source.NewLocalSource([]string{lib64}),
		config:   cfg,
		registry: registry.New(cfg.CachePath),
	}

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "denv.yaml"), []byte(`
name: player
packages: [vlc]
libraryPath: [vlc]
`), 0644))

	ctx := context.Background()

	environment, _, err := mgr.Construct(ctx, project)
	require.NoError(t, err)
	assert.Equal(t, lib64, environment.SearchPath())

	// Re-entry goes through the snapshot and must keep the same directory
	again, _, err := mgr.Construct(ctx, project)
	require.NoError(t, err)
	assert.Equal(t, lib64, again.SearchPath())
}

// One unresolvable package fails the whole construction before anything is
// materialized: no partial environments, no snapshot.
func TestConstruct_AllOrNothing(t *testing.T) {
	f := newFixture(t, `
name: player
packages: [vlc, nonexistent]
libraryPath: [vlc]
`, "vlc")

	_, _, err := f.mgr.Construct(context.Background(), f.project)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPackageNotFound)

	var opErr *Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "resolve", opErr.Op)
	assert.Equal(t, "nonexistent", opErr.Package)

	_, snapErr := env.LoadSnapshot(f.project)
	assert.True(t, os.IsNotExist(snapErr), "failed construction must not leave a snapshot")
}

func TestConstruct_InvalidDescriptor(t *testing.T) {
	f := newFixture(t, `
name: player
packages: [vlc]
libraryPath: [GL]
`, "vlc")

	_, _, err := f.mgr.Construct(context.Background(), f.project)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestConstruct_NoDescriptor(t *testing.T) {
	f := newFixture(t, `
name: player
packages: [vlc]
`, "vlc")

	_, _, err := f.mgr.Construct(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}

// The registry maps canonical names to source names and contributes library
// subdirectories to the search path.
func TestConstruct_RegistryMapping(t *testing.T) {
	f := newFixture(t, `
name: player
packages: [libGL]
libraryPath: [libGL]
`, "glvnd")

	depsDir := filepath.Join(f.mgr.config.CachePath, "deps", "libGL")
	require.NoError(t, os.MkdirAll(depsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(depsDir, "index.toml"), []byte(`
name = "libGL"
libs = ["lib"]

[sources]
local = "glvnd"
`), 0644))

	environment, _, err := f.mgr.Construct(context.Background(), f.project)
	require.NoError(t, err)

	libDir := filepath.Join(f.roots["glvnd"], "lib")
	assert.Equal(t, libDir, environment.SearchPath())
	require.Len(t, environment.Entries, 1)
	assert.Equal(t, "libGL", environment.Entries[0].Package, "entries carry the canonical name")
}

func TestNewManager_UnknownSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CachePath = t.TempDir()

	_, err := NewManager(SourceType("snap"), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported source type")
}

func TestResolveAll_ResolvesDuplicatesOnce(t *testing.T) {
	f := newFixture(t, "", "vlc")

	man := &Manifest{
		Name:     "player",
		Packages: []string{"vlc", "vlc"},
	}

	resolved, err := f.mgr.ResolveAll(context.Background(), man)
	require.NoError(t, err)
	assert.Len(t, resolved, 1)
}
