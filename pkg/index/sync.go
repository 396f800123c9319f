// pkg/index/sync.go
package index

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	// RepoURL is the registry repository holding the deps/ tree
	RepoURL = "https://github.com/denv-tool/registry"

	// RepoBranch is the branch synced from
	RepoBranch = "main"
)

// Sync shallow-clones the registry repository and copies the deps/ tree into
// the cache, replacing whatever was there before.
func Sync(cacheDir string) error {
	tempDir, err := os.MkdirTemp("", "denv-sync-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           RepoURL,
		ReferenceName: plumbing.NewBranchReferenceName(RepoBranch),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return fmt.Errorf("cloning registry: %w", err)
	}

	depsDir := filepath.Join(cacheDir, "deps")
	staging := depsDir + ".new"

	if err := copyDir(filepath.Join(tempDir, "deps"), staging); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("copying deps tree: %w", err)
	}

	// Swap the old tree out only after the new one is complete
	if err := os.RemoveAll(depsDir); err != nil {
		return fmt.Errorf("removing old deps tree: %w", err)
	}
	if err := os.Rename(staging, depsDir); err != nil {
		return fmt.Errorf("installing deps tree: %w", err)
	}

	return nil
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
