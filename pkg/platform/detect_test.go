// pkg/platform/detect_test.go
package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	p, err := Detect()
	require.NoError(t, err)

	assert.Equal(t, runtime.GOOS, p.OS)
	assert.Equal(t, runtime.GOARCH, p.Arch)
	assert.Contains(t, p.Available, "nix", "the binary cache needs nothing installed locally")
	assert.Equal(t, p.Available[0], p.Preferred)
	assert.True(t, p.Supports(p.Preferred))
}

func TestSupports(t *testing.T) {
	p := &Platform{Available: []string{"nix"}}

	assert.True(t, p.Supports("nix"))
	assert.False(t, p.Supports("local"))
	assert.False(t, p.Supports(""))
}
