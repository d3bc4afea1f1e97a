package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/repository"
)

// FixtureServiceRepository defines the repository methods needed by FixtureService
type FixtureServiceRepository interface {
	repository.FixtureRepository
	GetSportEvent(ctx context.Context, id string) (*models.SportEvent, error)
}

// FixtureService schedules matches inside sport events
type FixtureService struct {
	log         logger.Logger
	repo        FixtureServiceRepository
	depts       UniverseProvider
	broadcaster Broadcaster
	now         func() time.Time
}

// NewFixtureService creates a new FixtureService
func NewFixtureService(log logger.Logger, repo FixtureServiceRepository, depts UniverseProvider) *FixtureService {
	return &FixtureService{log: log, repo: repo, depts: depts, now: time.Now}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *FixtureService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetClock replaces the clock used to derive fixture status
func (s *FixtureService) SetClock(now func() time.Time) {
	s.now = now
}

// FixtureInput creates a fixture
type FixtureInput struct {
	Department1 string    `json:"department_1"`
	Department2 string    `json:"department_2"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Score       string    `json:"score"`
}

// FixturePatch changes only the fields that are set
type FixturePatch struct {
	Department1 *string    `json:"department_1,omitempty"`
	Department2 *string    `json:"department_2,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Score       *string    `json:"score,omitempty"`
}

func (p FixturePatch) empty() bool {
	return p.Department1 == nil && p.Department2 == nil && p.StartTime == nil && p.EndTime == nil && p.Score == nil
}

// FixtureView is a fixture with its status at read time
type FixtureView struct {
	models.Fixture
	Status           models.FixtureStatus `json:"status"`
	Department1Label string               `json:"department_1_label"`
	Department2Label string               `json:"department_2_label"`
}

// ListFixtures returns an event's fixtures ordered by start time
func (s *FixtureService) ListFixtures(ctx context.Context, eventID string) ([]FixtureView, error) {
	if _, err := s.repo.GetSportEvent(ctx, eventID); err != nil {
		return nil, translate(err, "sport event")
	}
	fixtures, err := s.repo.ListFixtures(ctx, eventID)
	if err != nil {
		return nil, translate(err, "fixtures")
	}
	return s.views(ctx, fixtures)
}

// AllFixtures returns every fixture with its current status
func (s *FixtureService) AllFixtures(ctx context.Context) ([]FixtureView, error) {
	fixtures, err := s.repo.ListAllFixtures(ctx)
	if err != nil {
		return nil, translate(err, "fixtures")
	}
	return s.views(ctx, fixtures)
}

// CreateFixture schedules a match between two different departments
func (s *FixtureService) CreateFixture(ctx context.Context, eventID string, in FixtureInput) (*FixtureView, error) {
	if _, err := s.repo.GetSportEvent(ctx, eventID); err != nil {
		return nil, translate(err, "sport event")
	}
	f := models.Fixture{
		ID:          uuid.NewString(),
		EventID:     eventID,
		Department1: strings.TrimSpace(in.Department1),
		Department2: strings.TrimSpace(in.Department2),
		StartTime:   in.StartTime.UTC(),
		EndTime:     in.EndTime.UTC(),
		Score:       strings.TrimSpace(in.Score),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.validate(ctx, f); err != nil {
		return nil, err
	}
	if err := s.repo.CreateFixture(ctx, f); err != nil {
		return nil, translate(err, "fixture")
	}
	s.log.Info("Fixture created", "id", f.ID, "event_id", eventID, "home", f.Department1, "away", f.Department2)
	s.notify(eventID)
	return s.view(ctx, f)
}

// UpdateFixture applies a partial update. A fixture that belongs to another
// event is reported as not found.
func (s *FixtureService) UpdateFixture(ctx context.Context, eventID, fixtureID string, patch FixturePatch) (*FixtureView, error) {
	if patch.empty() {
		return nil, ErrNoFieldsToUpdate
	}
	f, err := s.owned(ctx, eventID, fixtureID)
	if err != nil {
		return nil, err
	}
	if patch.Department1 != nil {
		f.Department1 = strings.TrimSpace(*patch.Department1)
	}
	if patch.Department2 != nil {
		f.Department2 = strings.TrimSpace(*patch.Department2)
	}
	if patch.StartTime != nil {
		f.StartTime = patch.StartTime.UTC()
	}
	if patch.EndTime != nil {
		f.EndTime = patch.EndTime.UTC()
	}
	if patch.Score != nil {
		f.Score = strings.TrimSpace(*patch.Score)
	}
	if err := s.validate(ctx, *f); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFixture(ctx, *f); err != nil {
		return nil, translate(err, "fixture")
	}
	s.log.Info("Fixture updated", "id", fixtureID, "event_id", eventID, "score", f.Score)
	s.notify(eventID)
	return s.view(ctx, *f)
}

// DeleteFixture removes a fixture from its event
func (s *FixtureService) DeleteFixture(ctx context.Context, eventID, fixtureID string) error {
	if _, err := s.owned(ctx, eventID, fixtureID); err != nil {
		return err
	}
	if err := s.repo.DeleteFixture(ctx, fixtureID); err != nil {
		return translate(err, "fixture")
	}
	s.log.Info("Fixture deleted", "id", fixtureID, "event_id", eventID)
	s.notify(eventID)
	return nil
}

func (s *FixtureService) owned(ctx context.Context, eventID, fixtureID string) (*models.Fixture, error) {
	f, err := s.repo.GetFixture(ctx, fixtureID)
	if err != nil {
		return nil, translate(err, "fixture")
	}
	if f.EventID != eventID {
		return nil, translate(repository.ErrNotFound, "fixture")
	}
	return f, nil
}

func (s *FixtureService) validate(ctx context.Context, f models.Fixture) error {
	universe, err := s.depts.Universe(ctx)
	if err != nil {
		return err
	}
	if err := universe.Validate(f.Department1); err != nil {
		return err
	}
	if err := universe.Validate(f.Department2); err != nil {
		return err
	}
	if f.Department1 == f.Department2 {
		return ErrSameDepartments
	}
	return validateTimes(f.StartTime, f.EndTime)
}

func (s *FixtureService) view(ctx context.Context, f models.Fixture) (*FixtureView, error) {
	views, err := s.views(ctx, []models.Fixture{f})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *FixtureService) views(ctx context.Context, fixtures []models.Fixture) ([]FixtureView, error) {
	universe, err := s.depts.Universe(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]FixtureView, len(fixtures))
	for i, f := range fixtures {
		out[i] = FixtureView{
			Fixture:          f,
			Status:           f.StatusAt(now),
			Department1Label: universe.Label(f.Department1),
			Department2Label: universe.Label(f.Department2),
		}
	}
	return out, nil
}

func (s *FixtureService) notify(eventID string) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastStandingsUpdated(models.DomainSports, eventID)
	}
}
