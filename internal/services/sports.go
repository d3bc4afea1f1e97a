package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/collegefest/champboard/internal/departments"
	"github.com/collegefest/champboard/internal/errors"
	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/repository"
	"github.com/collegefest/champboard/internal/standings"
)

// SportService handles sport events and their score tables
type SportService struct {
	log         logger.Logger
	repo        repository.SportRepository
	depts       UniverseProvider
	broadcaster Broadcaster
	now         func() time.Time
}

// NewSportService creates a new SportService
func NewSportService(log logger.Logger, repo repository.SportRepository, depts UniverseProvider) *SportService {
	return &SportService{log: log, repo: repo, depts: depts, now: time.Now}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *SportService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SportEventInput is the admin-editable part of a sport event
type SportEventInput struct {
	Name               string        `json:"name"`
	Gender             models.Gender `json:"gender"`
	Venue              string        `json:"venue"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            time.Time     `json:"end_time"`
	Solo               bool          `json:"solo"`
	AdditionalDataName string        `json:"additional_data_name"`
}

func (in SportEventInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.Validation("name is required")
	}
	if !in.Gender.Valid() {
		return errors.Validationf("gender must be one of men, women, mixed (got %q)", in.Gender)
	}
	return validateTimes(in.StartTime, in.EndTime)
}

func validateTimes(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errors.Validation("start time and end time are required")
	}
	if !start.Before(end) {
		return ErrEventTimeOrder
	}
	return nil
}

// RankedScore is a score record with its competition position
type RankedScore struct {
	Position   int    `json:"position"`
	Department string `json:"department"`
	models.ScoreRecord
}

// ListEvents returns sport events ordered by start time
func (s *SportService) ListEvents(ctx context.Context) ([]models.SportEvent, error) {
	events, err := s.repo.ListSportEvents(ctx)
	if err != nil {
		return nil, translate(err, "sport events")
	}
	return events, nil
}

// GetEvent returns a sport event by id
func (s *SportService) GetEvent(ctx context.Context, id string) (*models.SportEvent, error) {
	e, err := s.repo.GetSportEvent(ctx, id)
	if err != nil {
		return nil, translate(err, "sport event")
	}
	return e, nil
}

// CreateEvent stores a new event together with a zero score record for
// every department in the current universe.
func (s *SportService) CreateEvent(ctx context.Context, in SportEventInput) (*models.SportEvent, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	universe, err := s.depts.Universe(ctx)
	if err != nil {
		return nil, err
	}

	e := models.SportEvent{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(in.Name),
		Gender:             in.Gender,
		Venue:              strings.TrimSpace(in.Venue),
		StartTime:          in.StartTime.UTC(),
		EndTime:            in.EndTime.UTC(),
		Solo:               in.Solo,
		AdditionalDataName: strings.TrimSpace(in.AdditionalDataName),
		CreatedAt:          s.now().UTC(),
	}
	if err := s.repo.CreateSportEvent(ctx, e, universe.IDs()); err != nil {
		return nil, translate(err, "sport event")
	}
	s.log.Info("Sport event created", "id", e.ID, "name", e.Name, "departments", universe.Len())
	s.notify(e.ID)
	return &e, nil
}

// UpdateEvent replaces an event's descriptive fields. Scores are untouched.
func (s *SportService) UpdateEvent(ctx context.Context, id string, in SportEventInput) (*models.SportEvent, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	e, err := s.repo.GetSportEvent(ctx, id)
	if err != nil {
		return nil, translate(err, "sport event")
	}
	e.Name = strings.TrimSpace(in.Name)
	e.Gender = in.Gender
	e.Venue = strings.TrimSpace(in.Venue)
	e.StartTime = in.StartTime.UTC()
	e.EndTime = in.EndTime.UTC()
	e.Solo = in.Solo
	e.AdditionalDataName = strings.TrimSpace(in.AdditionalDataName)

	if err := s.repo.UpdateSportEvent(ctx, *e); err != nil {
		return nil, translate(err, "sport event")
	}
	s.log.Info("Sport event updated", "id", id)
	s.notify(id)
	return e, nil
}

// DeleteEvent removes an event with its scores and fixtures
func (s *SportService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.repo.DeleteSportEvent(ctx, id); err != nil {
		return translate(err, "sport event")
	}
	s.log.Info("Sport event deleted", "id", id)
	s.notify(id)
	return nil
}

// Standings returns the event's score table ranked by points, wins and
// losses. Records of retired departments are left out.
func (s *SportService) Standings(ctx context.Context, eventID string) ([]RankedScore, error) {
	if _, err := s.repo.GetSportEvent(ctx, eventID); err != nil {
		return nil, translate(err, "sport event")
	}
	universe, err := s.depts.Universe(ctx)
	if err != nil {
		return nil, err
	}
	return s.rankEvent(ctx, universe, eventID)
}

// UpdateScore replaces one department's tally and returns the re-ranked
// table. Concurrent updates to the same record are last-write-wins.
func (s *SportService) UpdateScore(ctx context.Context, eventID, departmentID string, update standings.ScoreUpdate) ([]RankedScore, error) {
	universe, err := s.depts.Universe(ctx)
	if err != nil {
		return nil, err
	}
	if err := universe.Validate(departmentID); err != nil {
		return nil, err
	}
	tally, err := update.Apply()
	if err != nil {
		return nil, err
	}

	err = s.repo.UpdateScore(ctx, eventID, departmentID,
		tally.Wins, tally.Losses, tally.Draws, tally.Matches, tally.Points, tally.AdditionalValue)
	if err != nil {
		return nil, translate(err, "score record")
	}
	s.log.Info("Score updated", "event_id", eventID, "department", departmentID,
		"wins", tally.Wins, "losses", tally.Losses, "draws", tally.Draws, "points", tally.Points)
	s.notify(eventID)

	return s.rankEvent(ctx, universe, eventID)
}

func (s *SportService) rankEvent(ctx context.Context, universe *departments.Universe, eventID string) ([]RankedScore, error) {
	records, err := s.repo.ListScores(ctx, eventID)
	if err != nil {
		return nil, translate(err, "scores")
	}
	current := records[:0:0]
	for _, r := range records {
		if universe.Contains(r.DepartmentID) {
			current = append(current, r)
		}
	}

	placements := standings.MatchRanker().Rank(current)
	ranked := make([]RankedScore, len(placements))
	for i, p := range placements {
		ranked[i] = RankedScore{
			Position:    p.Position,
			Department:  universe.Label(p.Entry.DepartmentID),
			ScoreRecord: p.Entry,
		}
	}
	return ranked, nil
}

func (s *SportService) notify(eventID string) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastStandingsUpdated(models.DomainSports, eventID)
	}
}
