package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listQuery string
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scripts in the workspace",
	Long: `List the scripts discovered in the workspace directory, with the
description and runnable flag extracted from each file.

Examples:
  scriptlab list
  scriptlab list -q report
  scriptlab list --json | jq '.[].name'`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "filter by name or description")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output JSON instead of a table")
}

func runList(_ *cobra.Command, _ []string) error {
	svc := newScriptService(newLogger())

	infos, err := svc.Search(listQuery)
	if err != nil {
		return err
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Println("no scripts found in", flagWorkspace)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRUNNABLE\tSIZE\tDESCRIPTION")
	for _, info := range infos {
		runnable := ""
		if info.Runnable {
			runnable = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", info.Name, runnable, info.Size, info.Description)
	}
	return w.Flush()
}
