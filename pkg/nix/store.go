// pkg/nix/store.go
package nix

import (
	"bufio"
	"compress/bzip2"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"zombiezen.com/go/nix/nar"
	"zombiezen.com/go/nix/nixbase32"
)

// Store fetches store objects from a binary cache into a local directory.
// It never talks to a nix daemon: resolution goes through the Hydra API and
// archives come straight from the cache.
type Store struct {
	client *Client
	config *Config
	logger *log.Logger
}

// hydraBuild is the JSON response for a Hydra /latest build
type hydraBuild struct {
	ID          int `json:"id"`
	BuildStatus int `json:"buildstatus"` // 0 = succeeded
	Outputs     map[string]struct {
		Path string `json:"path"`
	} `json:"buildoutputs"`
}

// NewStore creates a binary cache store
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.CacheURL == "" {
		cfg.CacheURL = DefaultCacheURL
	}
	if cfg.HydraURL == "" {
		cfg.HydraURL = DefaultHydraURL
	}
	if cfg.Jobset == "" {
		cfg.Jobset = DefaultJobset
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stderr, "[nix] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Store{
		client: NewClient(cfg.Timeout),
		config: cfg,
		logger: logger,
	}
}

// Resolve looks up a package attribute on Hydra and returns the store object
// with every published output. The attribute is not fetched.
func (s *Store) Resolve(ctx context.Context, attr string, platform Platform) (*StoreObject, error) {
	if platform == "" {
		detected, err := DetectPlatform()
		if err != nil {
			return nil, err
		}
		platform = detected
	}

	url := fmt.Sprintf("%s/job/%s/nixpkgs.%s.%s/latest", s.config.HydraURL, s.config.Jobset, attr, platform)
	s.logger.Printf("resolving %q via %s", attr, url)

	var build hydraBuild
	if err := s.client.GetJSON(ctx, url, &build); err != nil {
		return nil, fmt.Errorf("package %q not found for platform %s: %w", attr, platform, err)
	}

	if build.BuildStatus != 0 {
		s.logger.Printf("latest build for %q has status %d", attr, build.BuildStatus)
	}
	if len(build.Outputs) == 0 {
		return nil, fmt.Errorf("package %q: no outputs published", attr)
	}

	obj := &StoreObject{
		Attribute: attr,
		Outputs:   make(map[string]string, len(build.Outputs)),
		Platform:  platform,
	}

	for output, data := range build.Outputs {
		hash, nameVersion, err := parseStorePath(data.Path, output)
		if err != nil {
			s.logger.Printf("skipping output %s: %v", output, err)
			continue
		}
		obj.Outputs[output] = hash
		if obj.NameVersion == "" || output == "out" {
			obj.NameVersion = nameVersion
		}
	}

	if len(obj.Outputs) == 0 {
		return nil, fmt.Errorf("package %q: no usable store paths", attr)
	}

	s.logger.Printf("resolved %q to %s (%d outputs)", attr, obj.NameVersion, len(obj.Outputs))
	return obj, nil
}

// Root returns the directory a store object is (or will be) extracted into
func (s *Store) Root(obj *StoreObject) string {
	return filepath.Join(s.config.StoreDir, obj.Hash()+"-"+obj.NameVersion)
}

// Fetched reports whether the store object is already extracted
func (s *Store) Fetched(obj *StoreObject) bool {
	info, err := os.Stat(s.Root(obj))
	return err == nil && info.IsDir()
}

// Fetch downloads, verifies and extracts every requested output of a store
// object. All outputs merge into the same root so headers and libraries end
// up side by side.
func (s *Store) Fetch(ctx context.Context, obj *StoreObject, opts *FetchOptions) error {
	if opts == nil {
		opts = &FetchOptions{VerifyHash: true}
	}

	outputs := opts.Outputs
	if len(outputs) == 0 {
		outputs = make([]string, 0, len(obj.Outputs))
		for name := range obj.Outputs {
			outputs = append(outputs, name)
		}
	}

	root := s.Root(obj)

	for _, output := range outputs {
		hash, ok := obj.Outputs[output]
		if !ok {
			return fmt.Errorf("package %q has no output %q", obj.Attribute, output)
		}

		narInfo, err := s.NARInfo(ctx, hash)
		if err != nil {
			return fmt.Errorf("fetching narinfo for %s.%s: %w", obj.Attribute, output, err)
		}

		archive := filepath.Join(s.config.StoreDir,
			fmt.Sprintf("%s-%s.nar.%s", obj.NameVersion, output, narInfo.Compression))

		if err := s.downloadNAR(ctx, narInfo, archive); err != nil {
			return fmt.Errorf("downloading %s.%s: %w", obj.Attribute, output, err)
		}

		if opts.VerifyHash {
			if err := s.verifyFileHash(archive, narInfo.FileHash); err != nil {
				os.Remove(archive)
				return fmt.Errorf("verifying %s.%s: %w", obj.Attribute, output, err)
			}
		}

		if err := s.extractNAR(archive, root, narInfo.Compression); err != nil {
			return fmt.Errorf("extracting %s.%s: %w", obj.Attribute, output, err)
		}

		if !opts.KeepArchive {
			os.Remove(archive)
		}
	}

	s.logger.Printf("fetched %s into %s", obj.NameVersion, root)
	return nil
}

// NARInfo retrieves the cache metadata for a store hash
func (s *Store) NARInfo(ctx context.Context, storeHash string) (*NARInfo, error) {
	url := fmt.Sprintf("%s/%s.narinfo", s.config.CacheURL, storeHash)
	s.logger.Printf("fetching narinfo: %s", url)

	content, err := s.client.GetString(ctx, url)
	if err != nil {
		return nil, err
	}

	return parseNARInfo(content)
}

func (s *Store) downloadNAR(ctx context.Context, narInfo *NARInfo, dest string) error {
	url := fmt.Sprintf("%s/%s", s.config.CacheURL, narInfo.URL)
	s.logger.Printf("downloading %s", url)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := s.client.Download(ctx, url, f); err != nil {
		return fmt.Errorf("downloading: %w", err)
	}

	return nil
}

// verifyFileHash checks the sha256 of a downloaded archive against the
// narinfo FileHash, which uses the nix base32 alphabet.
func (s *Store) verifyFileHash(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return fmt.Errorf("computing hash: %w", err)
	}

	actual := nixbase32.EncodeToString(hasher.Sum(nil))
	if actual != expected {
		return fmt.Errorf("hash mismatch: expected %s, got %s", expected, actual)
	}

	return nil
}

func (s *Store) extractNAR(archive, dest, compression string) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	f, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	reader, closer, err := decompressor(f, compression)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	return extractNARStream(reader, dest)
}

// decompressor wraps an archive stream with the right decompression reader
func decompressor(r io.Reader, compression string) (io.Reader, func(), error) {
	switch compression {
	case CompressionXZ:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return xzr, nil, nil
	case CompressionBZip2:
		return bzip2.NewReader(r), nil, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return zr, zr.Close, nil
	case CompressionNone, "":
		return r, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression: %s", compression)
	}
}

func extractNARStream(r io.Reader, dest string) error {
	narReader := nar.NewReader(bufio.NewReader(r))

	for {
		hdr, err := narReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading archive entry: %w", err)
		}

		target := filepath.Join(dest, hdr.Path)

		switch hdr.Mode.Type() {
		case os.ModeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
		case os.ModeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("creating parent directory: %w", err)
			}
			// Outputs can be re-extracted over an existing root
			os.Remove(target)
			if err := os.Symlink(hdr.LinkTarget, target); err != nil {
				return fmt.Errorf("creating symlink: %w", err)
			}
		case 0: // regular file
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("creating parent directory: %w", err)
			}

			perm := os.FileMode(0644)
			if hdr.Mode&0111 != 0 {
				perm = 0755
			}

			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
			if err != nil {
				return fmt.Errorf("creating file %s: %w", target, err)
			}

			written, err := io.Copy(out, narReader)
			out.Close()
			if err != nil {
				return fmt.Errorf("writing file: %w", err)
			}
			if written != hdr.Size {
				return fmt.Errorf("short write for %s", target)
			}

		default:
			// other entry types are not part of the NAR format
		}
	}

	return nil
}
