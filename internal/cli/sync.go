// internal/cli/sync.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the package registry",
	Long:  `Fetch the latest deps/ registry tree into the local cache.`,
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return fmt.Errorf("initializing source: %w", err)
	}
	defer mgr.Close()

	if !mgr.Registry().Synced() {
		fmt.Println("No registry cached yet, fetching...")
	} else {
		fmt.Println("Updating package registry...")
	}
	if err := mgr.Sync(); err != nil {
		return fmt.Errorf("syncing registry: %w", err)
	}

	names, err := mgr.Registry().List()
	if err != nil {
		return err
	}
	fmt.Printf("Registry updated (%d packages).\n", len(names))

	return nil
}
