// pkg/nix/types.go
package nix

import (
	"log"
	"time"
)

// Config configures the binary cache store
type Config struct {
	CacheURL string        // Default: https://cache.nixos.org
	HydraURL string        // Default: https://hydra.nixos.org
	Jobset   string        // Default: nixos/trunk-combined
	StoreDir string        // Where fetched store objects are extracted
	Timeout  time.Duration
	Debug    bool        // Enable debug logging
	Logger   *log.Logger // Custom logger (optional)
}

// StoreObject is a package resolved against the binary cache.
// Outputs maps output names (out, lib, dev, bin) to store hashes.
type StoreObject struct {
	Attribute   string            // Attribute the object was resolved from
	NameVersion string            // e.g. "vlc-3.0.20"
	Outputs     map[string]string // output name -> store hash
	Platform    Platform
}

// Hash returns the store hash preferred for library lookup: the "lib" output
// if the derivation has one, otherwise "out", otherwise any output.
func (o *StoreObject) Hash() string {
	for _, name := range []string{"lib", "out"} {
		if h, ok := o.Outputs[name]; ok {
			return h
		}
	}
	for _, h := range o.Outputs {
		return h
	}
	return ""
}

// NARInfo contains the binary cache metadata for one store object
type NARInfo struct {
	StorePath   string
	URL         string
	Compression string
	FileHash    string
	FileSize    int64
	NarHash     string
	NarSize     int64
	References  []string
	Deriver     string
	Signature   string
}

// FetchOptions configures archive fetch and extraction
type FetchOptions struct {
	Outputs     []string // Which outputs to fetch. Empty = all resolved outputs
	KeepArchive bool     // Keep the .nar.<ext> file after extraction
	VerifyHash  bool     // Verify the file hash after download
}
