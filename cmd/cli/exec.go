package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/scriptlab/internal/engine"
)

var (
	execCode    string
	execTimeout int
	execLabel   string
)

var execCmd = &cobra.Command{
	Use:   "exec [file]",
	Short: "Execute inline code, a file, or stdin",
	Long: `Execute code through the engine without it being part of the
workspace catalog. The source comes from -c, a file argument, or stdin.

Examples:
  scriptlab exec -c 'print("hello")'
  scriptlab exec ./scratch.py --timeout 10
  echo 'print(6*7)' | scriptlab exec`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringVarP(&execCode, "code", "c", "", "inline source text")
	execCmd.Flags().IntVar(&execTimeout, "timeout", 0, "timeout in seconds (0 = default 30)")
	execCmd.Flags().StringVar(&execLabel, "label", "", "display name for log lines")
}

func runExec(cmd *cobra.Command, args []string) error {
	var source engine.Source
	switch {
	case execCode != "" && len(args) > 0:
		return fmt.Errorf("pass either -c or a file argument, not both")
	case execCode != "":
		source = engine.Inline(execCode)
	case len(args) == 1:
		source = engine.File(args[0])
	default:
		// No code and no file: read the script from stdin.
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		if len(data) == 0 {
			return fmt.Errorf("no code given: use -c, a file argument, or stdin")
		}
		source = engine.Inline(string(data))
	}

	logger := newLogger()
	res := newRunner(logger).Execute(context.Background(), engine.ExecutionRequest{
		Source:         source,
		TimeoutSeconds: execTimeout,
		Label:          execLabel,
	})

	if res.ErrorMessage != "" && flagVerbose {
		fmt.Fprintln(os.Stderr, res.ErrorMessage)
	}
	renderResult(res)
	return nil
}
