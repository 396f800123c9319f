// internal/cli/check.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/denv-tool/denv/pkg/manifest"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Verify that every declared package resolves",
	Long: `Load the descriptor, validate it, and resolve every package through
the configured source without materializing anything. Duplicate declarations
are reported as warnings; any resolution failure makes the command fail.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	dir, err := projectDir(args)
	if err != nil {
		return err
	}

	man, err := manifest.LoadDir(dir)
	if err != nil {
		return err
	}

	warnings, err := man.Validate()
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if err != nil {
		return err
	}

	mgr, err := newManager()
	if err != nil {
		return fmt.Errorf("initializing source: %w", err)
	}
	defer mgr.Close()

	resolved, err := mgr.ResolveAll(ctx, man)
	if err != nil {
		return err
	}

	for _, pkg := range man.Packages {
		fmt.Printf("✓ %s -> %s\n", pkg, resolved[pkg].NameVersion)
	}

	if len(warnings) > 0 {
		fmt.Fprintf(os.Stderr, "%d warning(s), descriptor left unchanged\n", len(warnings))
	}

	return nil
}
