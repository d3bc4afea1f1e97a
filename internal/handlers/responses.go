package handlers

import (
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/services"
)

// DepartmentsResponse is the active department universe
type DepartmentsResponse struct {
	Version     string              `json:"version"`
	Departments []models.Department `json:"departments"`
}

// DepartmentCreatedResponse reports a new department and how many score
// records were backfilled for it
type DepartmentCreatedResponse struct {
	Department *models.Department `json:"department"`
	Backfilled int64              `json:"backfilled"`
}

// ScoreUpdateResponse is the event's freshly ranked table
type ScoreUpdateResponse struct {
	EventID   string                 `json:"event_id"`
	Standings []services.RankedScore `json:"standings"`
}

// SessionResponse describes the logged-in admin
type SessionResponse struct {
	Email   string          `json:"email"`
	Domains []models.Domain `json:"domains"`
}

// HealthResponse is the /healthz body
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}
