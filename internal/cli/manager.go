// internal/cli/manager.go
package cli

import (
	"log"
	"os"

	"github.com/denv-tool/denv"
	"github.com/denv-tool/denv/pkg/source"
)

// newManager builds a denv.Manager from the loaded config and flags
func newManager() (*denv.Manager, error) {
	mcfg := denv.DefaultConfig()
	if cfg.StorePath != "" {
		mcfg.StorePath = cfg.StorePath
	}
	if cfg.CachePath != "" {
		mcfg.CachePath = cfg.CachePath
	}
	mcfg.Debug = cfg.Debug
	if cfg.Debug {
		mcfg.Logger = log.New(os.Stderr, "[denv] ", log.LstdFlags)
	}
	mcfg.Nix = &source.NixConfig{
		CacheURL: cfg.Nix.CacheURL,
		HydraURL: cfg.Nix.HydraURL,
		Jobset:   cfg.Nix.Jobset,
	}

	sourceType := denv.SourceAuto
	if cfg.DefaultSource != "" {
		sourceType = denv.SourceType(cfg.DefaultSource)
	}

	return denv.NewManager(sourceType, mcfg)
}

// projectDir returns the directory argument, defaulting to the cwd
func projectDir(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return os.Getwd()
}
