package handlers

import (
	"context"
	"net/http"
	"time"
)

// ==================== Public API ====================

func (h *Handlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.Leaderboard.Leaderboard(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, board)
}

func (h *Handlers) handleGetDepartments(w http.ResponseWriter, r *http.Request) {
	universe, err := h.Departments.Universe(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, DepartmentsResponse{
		Version:     universe.Version(),
		Departments: universe.Departments(),
	})
}

func (h *Handlers) handleGetSportEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Sports.ListEvents(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, events)
}

func (h *Handlers) handleGetSportEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	event, err := h.Sports.GetEvent(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, event)
}

func (h *Handlers) handleGetStandings(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	scores, err := h.Sports.Standings(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, scores)
}

func (h *Handlers) handleGetFixtures(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	fixtures, err := h.Fixtures.ListFixtures(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, fixtures)
}

func (h *Handlers) handleGetCulturalEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Cultural.ListEvents(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, events)
}

func (h *Handlers) handleGetCulturalEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	event, err := h.Cultural.GetEvent(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, event)
}

func (h *Handlers) handleGetWinners(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	winners, err := h.Cultural.ListWinners(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, winners)
}

// handleHealthz reports 503 when the database does not answer
func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		respondOK(w, HealthResponse{Status: "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		if h.Log != nil {
			h.Log.Warn("Health check failed", "error", err)
		}
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: "down"})
		return
	}
	respondOK(w, HealthResponse{Status: "ok", Database: "up"})
}
