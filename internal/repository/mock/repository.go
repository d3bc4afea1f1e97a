package mock

import (
	"context"

	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.UpdateScoreError = errors.New("database error")
//	svc := services.NewSportService(log, mockRepo, departmentService)
type Repository struct {
	repository.FullRepository

	// ===== Department Errors =====
	ListDepartmentsError error
	CreateDepartmentError error
	UpdateDepartmentError error
	BackfillScoresError   error

	// ===== Sport Errors =====
	ListSportEventsError  error
	GetSportEventError    error
	CreateSportEventError error
	ListScoresError       error
	ListAllScoresError    error
	UpdateScoreError      error

	// ===== Fixture Errors =====
	ListFixturesError    error
	ListAllFixturesError error
	CreateFixtureError   error

	// ===== Cultural Errors =====
	ListCulturalEventsError error
	GetCulturalEventError   error
	ListWinnersError        error
	ListAllWinnersError     error
	CreateWinnerError       error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{FullRepository: real}
}

// ===== Department Methods =====

func (m *Repository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	if m.ListDepartmentsError != nil {
		return nil, m.ListDepartmentsError
	}
	return m.FullRepository.ListDepartments(ctx)
}

func (m *Repository) CreateDepartment(ctx context.Context, d models.Department) (int64, error) {
	if m.CreateDepartmentError != nil {
		return 0, m.CreateDepartmentError
	}
	return m.FullRepository.CreateDepartment(ctx, d)
}

func (m *Repository) UpdateDepartment(ctx context.Context, d models.Department) error {
	if m.UpdateDepartmentError != nil {
		return m.UpdateDepartmentError
	}
	return m.FullRepository.UpdateDepartment(ctx, d)
}

func (m *Repository) BackfillScores(ctx context.Context, departmentID string) (int64, error) {
	if m.BackfillScoresError != nil {
		return 0, m.BackfillScoresError
	}
	return m.FullRepository.BackfillScores(ctx, departmentID)
}

// ===== Sport Methods =====

func (m *Repository) ListSportEvents(ctx context.Context) ([]models.SportEvent, error) {
	if m.ListSportEventsError != nil {
		return nil, m.ListSportEventsError
	}
	return m.FullRepository.ListSportEvents(ctx)
}

func (m *Repository) GetSportEvent(ctx context.Context, id string) (*models.SportEvent, error) {
	if m.GetSportEventError != nil {
		return nil, m.GetSportEventError
	}
	return m.FullRepository.GetSportEvent(ctx, id)
}

func (m *Repository) CreateSportEvent(ctx context.Context, e models.SportEvent, departmentIDs []string) error {
	if m.CreateSportEventError != nil {
		return m.CreateSportEventError
	}
	return m.FullRepository.CreateSportEvent(ctx, e, departmentIDs)
}

func (m *Repository) ListScores(ctx context.Context, eventID string) ([]models.ScoreRecord, error) {
	if m.ListScoresError != nil {
		return nil, m.ListScoresError
	}
	return m.FullRepository.ListScores(ctx, eventID)
}

func (m *Repository) ListAllScores(ctx context.Context) ([]models.ScoreRecord, error) {
	if m.ListAllScoresError != nil {
		return nil, m.ListAllScoresError
	}
	return m.FullRepository.ListAllScores(ctx)
}

func (m *Repository) UpdateScore(ctx context.Context, eventID, departmentID string, wins, losses, draws, matches int, points float64, additional *float64) error {
	if m.UpdateScoreError != nil {
		return m.UpdateScoreError
	}
	return m.FullRepository.UpdateScore(ctx, eventID, departmentID, wins, losses, draws, matches, points, additional)
}

// ===== Fixture Methods =====

func (m *Repository) ListFixtures(ctx context.Context, eventID string) ([]models.Fixture, error) {
	if m.ListFixturesError != nil {
		return nil, m.ListFixturesError
	}
	return m.FullRepository.ListFixtures(ctx, eventID)
}

func (m *Repository) ListAllFixtures(ctx context.Context) ([]models.Fixture, error) {
	if m.ListAllFixturesError != nil {
		return nil, m.ListAllFixturesError
	}
	return m.FullRepository.ListAllFixtures(ctx)
}

func (m *Repository) CreateFixture(ctx context.Context, f models.Fixture) error {
	if m.CreateFixtureError != nil {
		return m.CreateFixtureError
	}
	return m.FullRepository.CreateFixture(ctx, f)
}

// ===== Cultural Methods =====

func (m *Repository) ListCulturalEvents(ctx context.Context) ([]models.CulturalEvent, error) {
	if m.ListCulturalEventsError != nil {
		return nil, m.ListCulturalEventsError
	}
	return m.FullRepository.ListCulturalEvents(ctx)
}

func (m *Repository) GetCulturalEvent(ctx context.Context, id string) (*models.CulturalEvent, error) {
	if m.GetCulturalEventError != nil {
		return nil, m.GetCulturalEventError
	}
	return m.FullRepository.GetCulturalEvent(ctx, id)
}

func (m *Repository) ListWinners(ctx context.Context, eventID string) ([]models.CulturalWinner, error) {
	if m.ListWinnersError != nil {
		return nil, m.ListWinnersError
	}
	return m.FullRepository.ListWinners(ctx, eventID)
}

func (m *Repository) ListAllWinners(ctx context.Context) ([]models.CulturalWinner, error) {
	if m.ListAllWinnersError != nil {
		return nil, m.ListAllWinnersError
	}
	return m.FullRepository.ListAllWinners(ctx)
}

func (m *Repository) CreateWinner(ctx context.Context, w models.CulturalWinner) error {
	if m.CreateWinnerError != nil {
		return m.CreateWinnerError
	}
	return m.FullRepository.CreateWinner(ctx, w)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}
