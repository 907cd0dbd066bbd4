package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"crewclock-backend/internal/services"
)

// StatusHandler serves the supervisor's live board. Routes using it sit
// behind the supervisor role gate.
type StatusHandler struct {
	status *services.StatusService
}

func NewStatusHandler(status *services.StatusService) *StatusHandler {
	return &StatusHandler{status: status}
}

func (h *StatusHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.status.LiveBoard(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workers": board,
	})
}

func (h *StatusHandler) Worker(w http.ResponseWriter, r *http.Request) {
	workerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid worker ID", r))
		return
	}

	row, err := h.status.ProjectWorker(r.Context(), workerID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, row)
}
