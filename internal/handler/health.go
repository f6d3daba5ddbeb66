package handler

import "net/http"

// healthResponse reports service liveness plus the workspace the script
// catalog is serving from, so an operator can tell at a glance which
// directory this instance watches.
type healthResponse struct {
	Status    string `json:"status"`
	Workspace string `json:"workspace"`
}

// NewHealthHandler returns the GET /health handler.
//
// It takes no dependencies beyond the workspace path: if the process is
// up enough to answer, it is healthy. Database and interpreter problems
// surface on the endpoints that use them.
func NewHealthHandler(workspace string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:    "healthy",
			Workspace: workspace,
		})
	}
}
