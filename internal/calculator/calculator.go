// Package calculator provides the four basic arithmetic operations
// exposed by the web API and the CLI.
package calculator

import (
	"fmt"

	"github.com/sakif/scriptlab/internal/apperror"
)

// Add returns the sum of a and b.
func Add(a, b float64) float64 { return a + b }

// Subtract returns a minus b.
func Subtract(a, b float64) float64 { return a - b }

// Multiply returns the product of a and b.
func Multiply(a, b float64) float64 { return a * b }

// Divide returns a divided by b.
// Division by zero is a validation error, not a panic or an Inf result;
// callers map it to a 400 (web) or a usage message (CLI).
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, apperror.ValidationFailed("b", "Cannot divide by zero")
	}
	return a / b, nil
}

// Apply dispatches an operation by name. Recognized operations:
// add, subtract, multiply, divide (and their +, -, *, / aliases).
func Apply(operation string, a, b float64) (float64, error) {
	switch operation {
	case "add", "+":
		return Add(a, b), nil
	case "subtract", "-":
		return Subtract(a, b), nil
	case "multiply", "*":
		return Multiply(a, b), nil
	case "divide", "/":
		return Divide(a, b)
	default:
		return 0, apperror.ValidationFailed("operation",
			fmt.Sprintf("unknown operation: %q", operation))
	}
}
