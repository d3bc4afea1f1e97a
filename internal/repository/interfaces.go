package repository

import (
	"context"

	"github.com/collegefest/champboard/internal/models"
)

// DepartmentRepository defines department data operations
type DepartmentRepository interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	GetDepartment(ctx context.Context, id string) (*models.Department, error)
	InsertDepartmentIfMissing(ctx context.Context, d models.Department) (bool, error)
	CreateDepartment(ctx context.Context, d models.Department) (int64, error)
	UpdateDepartment(ctx context.Context, d models.Department) error
	BackfillScores(ctx context.Context, departmentID string) (int64, error)
}

// SportRepository defines sport event and score data operations
type SportRepository interface {
	ListSportEvents(ctx context.Context) ([]models.SportEvent, error)
	GetSportEvent(ctx context.Context, id string) (*models.SportEvent, error)
	CreateSportEvent(ctx context.Context, e models.SportEvent, departmentIDs []string) error
	UpdateSportEvent(ctx context.Context, e models.SportEvent) error
	DeleteSportEvent(ctx context.Context, id string) error
	ListScores(ctx context.Context, eventID string) ([]models.ScoreRecord, error)
	ListAllScores(ctx context.Context) ([]models.ScoreRecord, error)
	UpdateScore(ctx context.Context, eventID, departmentID string, wins, losses, draws, matches int, points float64, additional *float64) error
}

// FixtureRepository defines fixture data operations
type FixtureRepository interface {
	ListFixtures(ctx context.Context, eventID string) ([]models.Fixture, error)
	ListAllFixtures(ctx context.Context) ([]models.Fixture, error)
	GetFixture(ctx context.Context, id string) (*models.Fixture, error)
	CreateFixture(ctx context.Context, f models.Fixture) error
	UpdateFixture(ctx context.Context, f models.Fixture) error
	DeleteFixture(ctx context.Context, id string) error
}

// CulturalRepository defines cultural event and winner data operations
type CulturalRepository interface {
	ListCulturalEvents(ctx context.Context) ([]models.CulturalEvent, error)
	GetCulturalEvent(ctx context.Context, id string) (*models.CulturalEvent, error)
	CreateCulturalEvent(ctx context.Context, e models.CulturalEvent) error
	UpdateCulturalEvent(ctx context.Context, e models.CulturalEvent) error
	DeleteCulturalEvent(ctx context.Context, id string) error
	ListWinners(ctx context.Context, eventID string) ([]models.CulturalWinner, error)
	ListAllWinners(ctx context.Context) ([]models.CulturalWinner, error)
	GetWinner(ctx context.Context, id string) (*models.CulturalWinner, error)
	CreateWinner(ctx context.Context, w models.CulturalWinner) error
	UpdateWinner(ctx context.Context, w models.CulturalWinner) error
	DeleteWinner(ctx context.Context, id string) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AllSettings(ctx context.Context) (map[string]string, error)
}

// FullRepository combines all repository interfaces
type FullRepository interface {
	DepartmentRepository
	SportRepository
	FixtureRepository
	CulturalRepository
	SettingsRepository
	Ping(ctx context.Context) error
}

// Ensure Repository implements FullRepository
var _ FullRepository = (*Repository)(nil)
