// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/denv-tool/denv/pkg/config"
)

var (
	cfgFile    string
	sourceName string
	debug      bool
	cfg        *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "denv",
	Short: "Declarative development environments",
	Long: `denv - declarative development environment shells

Reads a denv.yaml descriptor, resolves its packages through a package
source, and enters a shell with the declared library search path.`,
	Version: "0.2.0",
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/denv/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&sourceName, "source", "", "package source to use (nix, local)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(enterCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.Default()
	}

	// Override config with flags
	if sourceName != "" {
		cfg.DefaultSource = sourceName
	}
	if debug {
		cfg.Debug = true
	}
}
