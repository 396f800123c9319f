// pkg/nix/constants.go
package nix

const (
	// DefaultCacheURL is the official binary cache
	DefaultCacheURL = "https://cache.nixos.org"

	// DefaultHydraURL is the build farm queried to resolve attribute names
	DefaultHydraURL = "https://hydra.nixos.org"

	// DefaultJobset is the Hydra jobset used for attribute resolution
	DefaultJobset = "nixos/trunk-combined"

	// CompressionXZ uses xz compression
	CompressionXZ = "xz"

	// CompressionBZip2 uses bzip2 compression
	CompressionBZip2 = "bzip2"

	// CompressionZstd uses zstd compression
	CompressionZstd = "zstd"

	// CompressionNone uses no compression
	CompressionNone = "none"
)
