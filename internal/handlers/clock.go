package handlers

import (
	"encoding/json"
	"net/http"

	"crewclock-backend/internal/middleware"
	"crewclock-backend/internal/models"
	"crewclock-backend/internal/repository"
	"crewclock-backend/internal/services"
)

type ClockHandler struct {
	clock      *services.ClockService
	timesheet  *services.TimesheetService
	workerRepo *repository.WorkerRepo
}

func NewClockHandler(clock *services.ClockService, timesheet *services.TimesheetService, workerRepo *repository.WorkerRepo) *ClockHandler {
	return &ClockHandler{clock: clock, timesheet: timesheet, workerRepo: workerRepo}
}

// ClockIn opens today's session for the authenticated worker. The body may
// carry a device fix; without one the server makes its own bounded attempt.
func (h *ClockHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.ClockInRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return
		}
	}

	displayName := ""
	if worker, err := h.workerRepo.GetByID(r.Context(), userID); err == nil {
		displayName = worker.FullName
	}

	session, err := h.clock.ClockIn(r.Context(), userID, displayName, req.Location)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session": session,
	})
}

func (h *ClockHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	session, err := h.clock.ClockOut(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
	})
}

// Resume reports the elapsed seconds of today's open session, if any, so a
// reattached timer view can continue mid-count.
func (h *ClockHandler) Resume(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	elapsed, active, err := h.clock.ResumeActiveTimer(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active":          active,
		"elapsed_seconds": elapsed,
	})
}

func (h *ClockHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessions, err := h.timesheet.SessionsForDay(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}

func (h *ClockHandler) Week(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sheet, err := h.timesheet.WeeklyTimesheet(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sheet)
}
