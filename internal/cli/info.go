// internal/cli/info.go
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [package]",
	Short: "Show information about a package",
	Long:  `Display the registry entry and source resolution for a package.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	pkg := args[0]

	mgr, err := newManager()
	if err != nil {
		return fmt.Errorf("initializing source: %w", err)
	}
	defer mgr.Close()

	entry, resolved, err := mgr.Info(ctx, pkg)
	if err != nil {
		return fmt.Errorf("getting package info: %w", err)
	}

	fmt.Printf("Package: %s\n", pkg)
	if entry != nil {
		fmt.Printf("Library dirs: %s\n", strings.Join(entry.LibDirs(), ", "))
		if len(entry.Sources) > 0 {
			fmt.Printf("Source names:\n")
			for src, name := range entry.Sources {
				fmt.Printf("  %s: %s\n", src, name)
			}
		}
	}
	if resolved != nil {
		fmt.Printf("Resolved: %s (via %s)\n", resolved.NameVersion, mgr.Source())
		if resolved.Hash != "" {
			fmt.Printf("Hash: %s\n", resolved.Hash)
		}
		fmt.Printf("Root: %s\n", resolved.Root)
	}

	return nil
}
