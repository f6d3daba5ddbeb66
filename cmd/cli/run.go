package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/scriptlab/internal/apperror"
)

var runTimeout int

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a workspace script by name",
	Long: `Run a script from the workspace directory by name (the filename
without its .py extension). Output streams pass through; the process
exit code mirrors the script's outcome.

Examples:
  scriptlab run daily_report
  scriptlab run backup --timeout 120

Exit codes:
  0    success
  N    the script's own non-zero exit code
  124  timed out`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runTimeout, "timeout", 0, "timeout in seconds (0 = default 30)")
}

func runRun(cmd *cobra.Command, args []string) error {
	svc := newScriptService(newLogger())

	res, err := svc.Run(context.Background(), args[0], runTimeout)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return fmt.Errorf("no script named %q in %s (try 'scriptlab list')", args[0], flagWorkspace)
		}
		return err
	}

	if res.ErrorMessage != "" && flagVerbose {
		fmt.Fprintln(os.Stderr, res.ErrorMessage)
	}
	renderResult(res)
	return nil
}
