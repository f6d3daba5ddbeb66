package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sakif/scriptlab/internal/calculator"
)

var calcCmd = &cobra.Command{
	Use:   "calc <operation> <a> <b>",
	Short: "Perform one arithmetic operation",
	Long: `Perform one of the four basic arithmetic operations on two numbers.
Operations: add, subtract, multiply, divide (or +, -, *, /).

Examples:
  scriptlab calc add 2 3
  scriptlab calc divide 10 4
  scriptlab calc '*' 6 7`,
	Args: cobra.ExactArgs(3),
	RunE: runCalc,
}

func runCalc(_ *cobra.Command, args []string) error {
	a, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", args[1])
	}
	b, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", args[2])
	}

	result, err := calculator.Apply(args[0], a, b)
	if err != nil {
		return err
	}

	// %g trims trailing zeros so integer results print as integers.
	fmt.Printf("%g\n", result)
	return nil
}
