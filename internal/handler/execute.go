package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/scriptlab/internal/engine"
)

// MaxTimeoutSeconds caps the per-request timeout override so a client
// cannot park a worker for an hour.
const MaxTimeoutSeconds = 300

// ExecuteHandler handles ad-hoc script execution requests.
type ExecuteHandler struct {
	exec   engine.Executor
	logger *slog.Logger
}

// NewExecuteHandler creates a new ExecuteHandler.
func NewExecuteHandler(exec engine.Executor, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		exec:   exec,
		logger: logger,
	}
}

// executeRequest is the JSON body for POST /api/execute.
type executeRequest struct {
	Code           string `json:"code"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
	Label          string `json:"label"`
}

// HandleExecute processes an incoming inline script execution request.
//
// HTTP: POST /api/execute
// REQUEST BODY: {"code": "print('hi')", "timeoutSeconds": 10, "label": "demo"}
//
// The response body is always the full execution result. The status
// code mirrors the outcome so clients that only look at the status
// still get it right:
//
//	success   -> 200
//	failure   -> 500
//	timed_out -> 504
func (h *ExecuteHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid execution request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if strings.TrimSpace(req.Code) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "code is required",
		})
		return
	}
	if req.TimeoutSeconds < 0 || req.TimeoutSeconds > MaxTimeoutSeconds {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "timeoutSeconds must be between 0 and 300",
		})
		return
	}

	h.logger.Info("executing inline script", slog.String("label", req.Label))

	result := h.exec.Execute(r.Context(), engine.ExecutionRequest{
		Source:         engine.Inline(req.Code),
		TimeoutSeconds: req.TimeoutSeconds,
		Label:          req.Label,
	})

	writeJSON(w, statusForResult(result), result)
}

// statusForResult maps an execution outcome to an HTTP status code.
// Shared with the script-run endpoint.
func statusForResult(res engine.ExecutionResult) int {
	switch res.Status {
	case engine.StatusSuccess:
		return http.StatusOK
	case engine.StatusTimedOut:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
