package handlers

import (
	"github.com/collegefest/champboard/internal/services"
	"github.com/collegefest/champboard/internal/standings"
)

// ScoreUpdateRequest replaces one department's tally in a sport event.
// Numbers arrive as float64 so fractional counts are reported as
// validation errors instead of decode errors. Every count is required: the
// update is a full replacement, so a missing field must not become zero.
type ScoreUpdateRequest struct {
	DepartmentID        string   `json:"department_id"`
	Wins                *float64 `json:"wins"`
	Losses              *float64 `json:"losses"`
	Draws               *float64 `json:"draws"`
	Points              *float64 `json:"points"`
	AdditionalDataValue *float64 `json:"additional_data_value,omitempty"`
}

func (r ScoreUpdateRequest) update() (standings.ScoreUpdate, error) {
	if r.DepartmentID == "" {
		return standings.ScoreUpdate{}, Validation("department_id is required")
	}
	u := standings.ScoreUpdate{AdditionalValue: r.AdditionalDataValue}
	fields := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"wins", r.Wins, &u.Wins},
		{"losses", r.Losses, &u.Losses},
		{"draws", r.Draws, &u.Draws},
		{"points", r.Points, &u.Points},
	}
	for _, f := range fields {
		v, err := required(f.name, f.src)
		if err != nil {
			return standings.ScoreUpdate{}, err
		}
		*f.dst = v
	}
	return u, nil
}

// WinnerCreateRequest places a department on a cultural event's podium
type WinnerCreateRequest struct {
	Position     *float64 `json:"position"`
	DepartmentID string   `json:"department_id"`
	Points       *float64 `json:"points"`
}

func (r WinnerCreateRequest) input() (services.WinnerInput, error) {
	position, err := required("position", r.Position)
	if err != nil {
		return services.WinnerInput{}, err
	}
	points, err := required("points", r.Points)
	if err != nil {
		return services.WinnerInput{}, err
	}
	return services.WinnerInput{Position: position, DepartmentID: r.DepartmentID, Points: points}, nil
}

func required(field string, v *float64) (float64, error) {
	if v == nil {
		return 0, Validation(field + " is required")
	}
	return *v, nil
}

// DepartmentCreateRequest adds a department to the universe
type DepartmentCreateRequest struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	SortOrder *int   `json:"sort_order,omitempty"`
}

func (r DepartmentCreateRequest) input() services.DepartmentInput {
	return services.DepartmentInput{ID: r.ID, Label: r.Label, SortOrder: r.SortOrder}
}

// DepartmentUpdateRequest relabels, reorders or (re)activates a department
type DepartmentUpdateRequest struct {
	Label     *string `json:"label,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

func (r DepartmentUpdateRequest) patch() services.DepartmentPatch {
	return services.DepartmentPatch{Label: r.Label, SortOrder: r.SortOrder, Active: r.Active}
}

// SettingsUpdateRequest represents a request to update settings
type SettingsUpdateRequest struct {
	SiteTitle   *string `json:"site_title,omitempty"`
	RulebookURL *string `json:"rulebook_url,omitempty"`
	BaseURL     *string `json:"base_url,omitempty"`
}

func (r SettingsUpdateRequest) settings() services.Settings {
	return services.Settings{SiteTitle: r.SiteTitle, RulebookURL: r.RulebookURL, BaseURL: r.BaseURL}
}
