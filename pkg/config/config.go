// pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds denv tool configuration
type Config struct {
	DefaultSource string `yaml:"default_source"` // "" = auto-detect
	StorePath     string `yaml:"store_path"`
	CachePath     string `yaml:"cache_path"`
	Debug         bool   `yaml:"debug"`

	Nix NixConfig `yaml:"nix"`
}

// NixConfig holds binary cache settings
type NixConfig struct {
	CacheURL string `yaml:"cache_url"`
	HydraURL string `yaml:"hydra_url"`
	Jobset   string `yaml:"jobset"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		DefaultSource: "",
		StorePath:     defaultStorePath(),
		CachePath:     defaultCachePath(),
		Debug:         false,
	}
}

// Load loads configuration from file, falling back to defaults when the file
// does not exist.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(home, ".config", "denv", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to file
func Save(cfg *Config, path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".config", "denv", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func defaultStorePath() string {
	if path := os.Getenv("DENV_STORE_PATH"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "denv", "store")
	}
	return filepath.Join(home, ".cache", "denv", "store")
}

func defaultCachePath() string {
	if path := os.Getenv("DENV_CACHE_PATH"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "denv")
	}
	return filepath.Join(home, ".cache", "denv")
}
