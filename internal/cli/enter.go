// internal/cli/enter.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/denv-tool/denv/pkg/env"
)

var enterShell string

var enterCmd = &cobra.Command{
	Use:   "enter [dir]",
	Short: "Enter the environment declared in a project directory",
	Long: `Construct the environment from the project's denv.yaml and spawn an
interactive shell with the declared library search path exported.

Examples:
  denv enter
  denv enter ~/src/player
  denv enter --source=local`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnter,
}

func init() {
	enterCmd.Flags().StringVar(&enterShell, "shell", "", "shell to spawn (default $SHELL)")
}

func runEnter(cmd *cobra.Command, args []string) error {
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

	fmt.Fprintf(os.Stderr, "entering %s (%s via %s)\n",
		environment.Name, env.LibraryPathVar(), mgr.Source())

	return env.Enter(ctx, environment, enterShell)
}
