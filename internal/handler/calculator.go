package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/scriptlab/internal/calculator"
)

// CalculatorHandler exposes the arithmetic operations over HTTP.
type CalculatorHandler struct {
	logger *slog.Logger
}

// NewCalculatorHandler creates a new CalculatorHandler.
func NewCalculatorHandler(logger *slog.Logger) *CalculatorHandler {
	return &CalculatorHandler{logger: logger}
}

// calculateRequest is the JSON body for POST /api/calculate.
type calculateRequest struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
}

// calculateResponse wraps the result so the response is an object, not
// a bare number, leaving room to add fields later without breaking clients.
type calculateResponse struct {
	Result float64 `json:"result"`
}

// HandleCalculate performs one arithmetic operation.
//
// HTTP: POST /api/calculate
// REQUEST BODY: {"operation": "divide", "a": 10, "b": 4}
// RESPONSE: {"result": 2.5}
//
// Division by zero and unknown operations come back as 400s through the
// standard error mapping.
func (h *CalculatorHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid calculate JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := calculator.Apply(req.Operation, req.A, req.B)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calculateResponse{Result: result})
}
