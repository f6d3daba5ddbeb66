package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/scriptlab/internal/service"
)

// TodoHandler manages CRUD operations for todo items.
type TodoHandler struct {
	svc    *service.TodoService
	logger *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{svc: svc, logger: logger}
}

// todoRequest is the JSON body for create and update. PUT uses full
// replacement semantics, so the same shape serves both.
type todoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// HandleList returns todos with pagination.
//
// HTTP: GET /api/todos?limit=50&offset=0
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	todos, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

// HandleCreate saves a new todo.
//
// HTTP: POST /api/todos
// REQUEST BODY: {"title": "Buy milk", "description": "Two liters", "completed": false}
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid todo JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	todo, err := h.svc.Create(r.Context(), req.Title, req.Description, req.Completed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// HandleGet returns a single todo by ID.
//
// HTTP: GET /api/todos/{id}
func (h *TodoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	todo, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// HandleUpdate replaces a todo's fields.
//
// HTTP: PUT /api/todos/{id}
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	todo, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req.Title, req.Description, req.Completed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// HandleDelete removes a todo.
//
// HTTP: DELETE /api/todos/{id}
//
// 204 No Content on success: there is nothing meaningful to return.
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
