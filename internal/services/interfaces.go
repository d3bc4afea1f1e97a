package services

import (
	"context"

	"github.com/collegefest/champboard/internal/departments"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/standings"
)

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastStandingsUpdated(domain models.Domain, eventID string)
}

// UniverseProvider yields the current department universe
type UniverseProvider interface {
	Universe(ctx context.Context) (*departments.Universe, error)
}

// DepartmentServicer defines the interface for department operations
type DepartmentServicer interface {
	UniverseProvider
	ListDepartments(ctx context.Context) ([]models.Department, error)
	Seed(ctx context.Context, version string, seed []models.Department) (*SeedResult, error)
	AddDepartment(ctx context.Context, in DepartmentInput) (*models.Department, int64, error)
	UpdateDepartment(ctx context.Context, id string, patch DepartmentPatch) (*models.Department, error)
	RetireDepartment(ctx context.Context, id string) error
	SetBroadcaster(b Broadcaster)
}

// SportServicer defines the interface for sport event and score operations
type SportServicer interface {
	ListEvents(ctx context.Context) ([]models.SportEvent, error)
	GetEvent(ctx context.Context, id string) (*models.SportEvent, error)
	CreateEvent(ctx context.Context, in SportEventInput) (*models.SportEvent, error)
	UpdateEvent(ctx context.Context, id string, in SportEventInput) (*models.SportEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	Standings(ctx context.Context, eventID string) ([]RankedScore, error)
	UpdateScore(ctx context.Context, eventID, departmentID string, update standings.ScoreUpdate) ([]RankedScore, error)
	SetBroadcaster(b Broadcaster)
}

// FixtureServicer defines the interface for fixture operations
type FixtureServicer interface {
	ListFixtures(ctx context.Context, eventID string) ([]FixtureView, error)
	AllFixtures(ctx context.Context) ([]FixtureView, error)
	CreateFixture(ctx context.Context, eventID string, in FixtureInput) (*FixtureView, error)
	UpdateFixture(ctx context.Context, eventID, fixtureID string, patch FixturePatch) (*FixtureView, error)
	DeleteFixture(ctx context.Context, eventID, fixtureID string) error
	SetBroadcaster(b Broadcaster)
}

// CulturalServicer defines the interface for cultural event and winner operations
type CulturalServicer interface {
	ListEvents(ctx context.Context) ([]models.CulturalEvent, error)
	GetEvent(ctx context.Context, id string) (*models.CulturalEvent, error)
	CreateEvent(ctx context.Context, in CulturalEventInput) (*models.CulturalEvent, error)
	UpdateEvent(ctx context.Context, id string, patch CulturalEventPatch) (*models.CulturalEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	ListWinners(ctx context.Context, eventID string) ([]WinnerView, error)
	CreateWinner(ctx context.Context, eventID string, in WinnerInput) (*WinnerView, error)
	UpdateWinner(ctx context.Context, eventID, winnerID string, patch WinnerPatch) (*WinnerView, error)
	DeleteWinner(ctx context.Context, eventID, winnerID string) error
	SetBroadcaster(b Broadcaster)
}

// LeaderboardServicer defines the interface for the overall standings
type LeaderboardServicer interface {
	Leaderboard(ctx context.Context) (*Leaderboard, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetSiteTitle(ctx context.Context) (string, error)
	GetRulebookURL(ctx context.Context) (string, error)
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	AllSettings(ctx context.Context) (map[string]string, error)
	UpdateSettings(ctx context.Context, settings Settings) error
}

// QRServicer defines the interface for QR code rendering
type QRServicer interface {
	PageURL(ctx context.Context, path string) (string, error)
	PageQR(ctx context.Context, path string) ([]byte, error)
}

// Ensure concrete types implement interfaces
var (
	_ DepartmentServicer  = (*DepartmentService)(nil)
	_ SportServicer       = (*SportService)(nil)
	_ FixtureServicer     = (*FixtureService)(nil)
	_ CulturalServicer    = (*CulturalService)(nil)
	_ LeaderboardServicer = (*LeaderboardService)(nil)
	_ SettingsServicer    = (*SettingsService)(nil)
	_ QRServicer          = (*QRService)(nil)
)
