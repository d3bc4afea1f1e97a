package models

import (
	"strings"
	"time"
)

// Domain names an admin area that can be authorized independently
type Domain string

const (
	DomainSports      Domain = "sports"
	DomainCultural    Domain = "cultural"
	DomainDepartments Domain = "departments"
)

// Domains lists every admin domain in display order
var Domains = []Domain{DomainSports, DomainCultural, DomainDepartments}

// Department is a participating department. ID is stable and never reused;
// Label is what people see and may change.
type Department struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	SortOrder int       `json:"sort_order"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultLabel derives a display label from a department id ("C_CYCLE" -> "C-CYCLE").
func DefaultLabel(id string) string {
	return strings.ReplaceAll(id, "_", "-")
}

// Gender of a sport event's participants
type Gender string

const (
	GenderMen   Gender = "men"
	GenderWomen Gender = "women"
	GenderMixed Gender = "mixed"
)

// Valid reports whether g is one of the known genders
func (g Gender) Valid() bool {
	switch g {
	case GenderMen, GenderWomen, GenderMixed:
		return true
	}
	return false
}

// SportEvent is a match-record scored event
type SportEvent struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Gender             Gender    `json:"gender"`
	Venue              string    `json:"venue"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Solo               bool      `json:"solo"`
	AdditionalDataName string    `json:"additional_data_name,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// DisplayName turns "TABLE_TENNIS" into "Table Tennis"
func (e SportEvent) DisplayName() string {
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(e.Name), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// AdditionalData is a named per-event tiebreak metric
type AdditionalData struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ScoreRecord is one department's tally in one sport event
type ScoreRecord struct {
	EventID        string          `json:"event_id"`
	DepartmentID   string          `json:"department_id"`
	Wins           int             `json:"wins"`
	Losses         int             `json:"losses"`
	Draws          int             `json:"draws"`
	Matches        int             `json:"matches"`
	Points         float64         `json:"points"`
	AdditionalData *AdditionalData `json:"additional_data,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CulturalEvent is a podium scored event
type CulturalEvent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Venue       string    `json:"venue"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Solo        bool      `json:"solo"`
	CreatedAt   time.Time `json:"created_at"`
}

// CulturalWinner is a podium placement in a cultural event
type CulturalWinner struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	Position     int       `json:"position"`
	DepartmentID string    `json:"department_id"`
	Points       float64   `json:"points"`
	CreatedAt    time.Time `json:"created_at"`
}

// FixtureStatus is derived from the clock, never stored
type FixtureStatus string

const (
	FixturePending   FixtureStatus = "pending"
	FixtureHappening FixtureStatus = "happening"
	FixtureCompleted FixtureStatus = "completed"
)

// Fixture is a scheduled match between two departments
type Fixture struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Department1 string    `json:"department_1"`
	Department2 string    `json:"department_2"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Score       string    `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatusAt derives the fixture status at now. Missing times count as pending.
func (f Fixture) StatusAt(now time.Time) FixtureStatus {
	if f.StartTime.IsZero() || f.EndTime.IsZero() {
		return FixturePending
	}
	if now.Before(f.StartTime) {
		return FixturePending
	}
	if now.Before(f.EndTime) {
		return FixtureHappening
	}
	return FixtureCompleted
}

// WSMessage represents a websocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
