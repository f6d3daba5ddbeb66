package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/scriptlab/internal/scripts"
)

// ScriptHandler exposes the workspace script catalog: listing, metadata,
// raw source, and execution by name.
type ScriptHandler struct {
	svc    *scripts.Service
	logger *slog.Logger
}

// NewScriptHandler creates a new ScriptHandler.
func NewScriptHandler(svc *scripts.Service, logger *slog.Logger) *ScriptHandler {
	return &ScriptHandler{svc: svc, logger: logger}
}

// HandleList returns all discovered scripts, optionally filtered.
//
// HTTP: GET /api/scripts?q=report
//
// The q parameter matches name and description, case-insensitive.
func (h *ScriptHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	infos, err := h.svc.Search(r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("failed to list scripts", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

// HandleGet returns metadata for one script.
//
// HTTP: GET /api/scripts/{name}
func (h *ScriptHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleSource returns the raw script text.
//
// HTTP: GET /api/scripts/{name}/source
//
// Plain text, not JSON: the body IS the script, ready to pipe to a file.
func (h *ScriptHandler) HandleSource(w http.ResponseWriter, r *http.Request) {
	source, err := h.svc.Source(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(source))
}

// runRequest is the optional JSON body for POST /api/scripts/{name}/run.
// An empty body means "run with the default timeout".
type runRequest struct {
	TimeoutSeconds int `json:"timeoutSeconds"`
}

// HandleRun executes a discovered script by name.
//
// HTTP: POST /api/scripts/{name}/run
// REQUEST BODY (optional): {"timeoutSeconds": 60}
//
// An unknown name is a 404; a known script always produces a full
// execution result with the status-mirroring code used by /api/execute.
func (h *ScriptHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "invalid JSON body",
			})
			return
		}
	}
	if req.TimeoutSeconds < 0 || req.TimeoutSeconds > MaxTimeoutSeconds {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "timeoutSeconds must be between 0 and 300",
		})
		return
	}

	result, err := h.svc.Run(r.Context(), chi.URLParam(r, "name"), req.TimeoutSeconds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, statusForResult(result), result)
}
