package handlers

import (
	"net/http"

	"github.com/collegefest/champboard/internal/auth"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/services"
)

// AdminPageData holds the data passed to admin templates
type AdminPageData struct {
	Title     string
	PageTitle string
	ActiveNav string
	Email     string
	Domains   []models.Domain
	EventID   string
	EventName string
}

func (h *Handlers) adminPage(r *http.Request, title, nav string) AdminPageData {
	email, _ := auth.SubjectFromContext(r.Context())
	return AdminPageData{
		Title:     title,
		PageTitle: title,
		ActiveNav: nav,
		Email:     email,
		Domains:   h.Auth.Domains(email),
	}
}

// ==================== Admin Pages ====================

func (h *Handlers) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.templates.AdminDashboard, "admin", h.adminPage(r, "Admin Dashboard", "dashboard"))
}

func (h *Handlers) handleAdminSports(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.templates.AdminSports, "admin", h.adminPage(r, "Sport Events", "sports"))
}

func (h *Handlers) handleAdminSport(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	event, err := h.Sports.GetEvent(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data := h.adminPage(r, event.DisplayName(), "sports")
	data.EventID = event.ID
	data.EventName = event.DisplayName()
	h.render(w, h.templates.AdminSport, "admin", data)
}

func (h *Handlers) handleAdminCultural(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.templates.AdminCultural, "admin", h.adminPage(r, "Cultural Events", "cultural"))
}

func (h *Handlers) handleAdminCulturalEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	event, err := h.Cultural.GetEvent(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data := h.adminPage(r, event.Name, "cultural")
	data.EventID = event.ID
	data.EventName = event.Name
	h.render(w, h.templates.AdminCulturalEvent, "admin", data)
}

func (h *Handlers) handleAdminDepartments(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.templates.AdminDepartments, "admin", h.adminPage(r, "Departments", "departments"))
}

// ==================== Session ====================

func (h *Handlers) handleGetSession(w http.ResponseWriter, r *http.Request) {
	email, _ := auth.SubjectFromContext(r.Context())
	respondOK(w, SessionResponse{Email: email, Domains: h.Auth.Domains(email)})
}

// ==================== Sport Events ====================

func (h *Handlers) handleCreateSportEvent(w http.ResponseWriter, r *http.Request) {
	var req services.SportEventInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	event, err := h.Sports.CreateEvent(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, event)
}

func (h *Handlers) handleUpdateSportEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req services.SportEventInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	event, err := h.Sports.UpdateEvent(r.Context(), id, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, event)
}

func (h *Handlers) handleDeleteSportEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.Sports.DeleteEvent(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondDeleted(w)
}

// handleUpdateScore replaces a department's tally and returns the re-ranked table
func (h *Handlers) handleUpdateScore(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req ScoreUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	update, err := req.update()
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	ranked, err := h.Sports.UpdateScore(r.Context(), id, req.DepartmentID, update)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, ScoreUpdateResponse{EventID: id, Standings: ranked})
}

// ==================== Fixtures ====================

func (h *Handlers) handleCreateFixture(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req services.FixtureInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	fixture, err := h.Fixtures.CreateFixture(r.Context(), id, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, fixture)
}

func (h *Handlers) handleUpdateFixture(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	fixtureID, err := idParam(r, "fixtureID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req services.FixturePatch
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	fixture, err := h.Fixtures.UpdateFixture(r.Context(), id, fixtureID, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, fixture)
}

func (h *Handlers) handleDeleteFixture(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	fixtureID, err := idParam(r, "fixtureID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.Fixtures.DeleteFixture(r.Context(), id, fixtureID); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondDeleted(w)
}

// ==================== Cultural Events ====================

func (h *Handlers) handleCreateCulturalEvent(w http.ResponseWriter, r *http.Request) {
	var req services.CulturalEventInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	event, err := h.Cultural.CreateEvent(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, event)
}

func (h *Handlers) handleUpdateCulturalEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req services.CulturalEventPatch
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	event, err := h.Cultural.UpdateEvent(r.Context(), id, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, event)
}

func (h *Handlers) handleDeleteCulturalEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.Cultural.DeleteEvent(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondDeleted(w)
}

// ==================== Cultural Winners ====================

func (h *Handlers) handleCreateWinner(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req WinnerCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	winner, err := h.Cultural.CreateWinner(r.Context(), id, in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, winner)
}

func (h *Handlers) handleUpdateWinner(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	winnerID, err := idParam(r, "winnerID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req services.WinnerPatch
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	winner, err := h.Cultural.UpdateWinner(r.Context(), id, winnerID, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, winner)
}

func (h *Handlers) handleDeleteWinner(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	winnerID, err := idParam(r, "winnerID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.Cultural.DeleteWinner(r.Context(), id, winnerID); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondDeleted(w)
}

// ==================== QR Codes ====================

func (h *Handlers) handleSportQR(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if _, err := h.Sports.GetEvent(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeQR(w, r, "/sports/"+id)
}

func (h *Handlers) handleCulturalQR(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if _, err := h.Cultural.GetEvent(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeQR(w, r, "/cultural/"+id)
}

func (h *Handlers) writeQR(w http.ResponseWriter, r *http.Request, path string) {
	png, err := h.QR.PageQR(r.Context(), path)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// ==================== Departments ====================

func (h *Handlers) handleAdminGetDepartments(w http.ResponseWriter, r *http.Request) {
	all, err := h.Departments.ListDepartments(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, all)
}

func (h *Handlers) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req DepartmentCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	dept, backfilled, err := h.Departments.AddDepartment(r.Context(), req.input())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, DepartmentCreatedResponse{Department: dept, Backfilled: backfilled})
}

func (h *Handlers) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req DepartmentUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	dept, err := h.Departments.UpdateDepartment(r.Context(), id, req.patch())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, dept)
}

// handleRetireDepartment archives a department. Its records are kept.
func (h *Handlers) handleRetireDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.Departments.RetireDepartment(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondDeleted(w)
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.AllSettings(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.Settings.UpdateSettings(r.Context(), req.settings()); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondSuccess(w, "Settings updated")
}
