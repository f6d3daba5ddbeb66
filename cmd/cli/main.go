// scriptlab is the command-line companion to the scriptlab server: it
// runs workspace scripts and inline code through the same execution
// engine, without going over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Process exit codes. A script's own exit code passes through on
// failure; these cover the outcomes that have no real code.
const (
	ExitSuccess  = 0
	ExitFailure  = 1
	ExitTimedOut = 124 // same convention as coreutils timeout(1)
)

var (
	flagWorkspace   string
	flagInterpreter string
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "scriptlab",
	Short: "Run workspace scripts and inline code in isolated child processes",
	Long: `scriptlab runs Python scripts as isolated child processes with a
wall-clock timeout, capturing stdout and stderr in full. It shares the
execution engine with the scriptlab server, so results are identical
whether a script runs via the API or this CLI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagWorkspace, "workspace", "workspace", "directory containing the script catalog")
	rootCmd.PersistentFlags().StringVar(&flagInterpreter, "interpreter", "", "interpreter binary (default python3)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(listCmd, runCmd, execCmd, calcCmd)
	_ = godotenv.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitFailure)
	}
}
