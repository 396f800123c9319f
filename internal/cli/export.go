// internal/cli/export.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/denv-tool/denv/pkg/env"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Print the environment as a shell script",
	Long: `Construct the environment and print export statements instead of
spawning a shell, for use with eval:

  eval "$(denv export)"
  denv export --format=fish | source`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", env.FormatSh, "output format (sh, fish)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	dir, err := projectDir(args)
	if err != nil {
		return err
	}

	mgr, err := newManager()
	if err != nil {
		return fmt.Errorf("initializing source: %w", err)
	}
	defer mgr.Close()

	environment, warnings, err := mgr.Construct(ctx, dir)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if err != nil {
		return err
	}

	script, err := env.ExportScript(environment, exportFormat)
	if err != nil {
		return err
	}

	fmt.Print(script)
	return nil
}
