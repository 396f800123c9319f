// pkg/env/shell.go
package env

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Export script formats
const (
	FormatSh   = "sh"
	FormatFish = "fish"
)

// ExportScript renders the environment as a shell script. Variables appear
// in sorted order so repeated renders of the same environment are
// byte-identical.
func ExportScript(e *Environment, format string) (string, error) {
	vars := e.Vars()

	var b strings.Builder
	for _, name := range e.VarNames() {
		switch format {
		case FormatSh:
			fmt.Fprintf(&b, "export %s=%s\n", name, quoteSh(vars[name]))
		case FormatFish:
			fmt.Fprintf(&b, "set -gx %s %s\n", name, quoteFish(vars[name]))
		default:
			return "", fmt.Errorf("unsupported format: %s", format)
		}
	}

	return b.String(), nil
}

// Enter spawns an interactive shell with the environment's variables layered
// over the current process environment. Returns when the shell exits; the
// environment is gone with it.
func Enter(ctx context.Context, e *Environment, shell string) error {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmd.Env = os.Environ()
	vars := e.Vars()
	for _, name := range e.VarNames() {
		cmd.Env = append(cmd.Env, name+"="+vars[name])
	}

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// Shell exit status is the user's business, not a failure
			return nil
		}
		return fmt.Errorf("spawning shell %s: %w", shell, err)
	}

	return nil
}

// quoteSh single-quotes a value for POSIX shells
func quoteSh(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// quoteFish single-quotes a value for fish
func quoteFish(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
