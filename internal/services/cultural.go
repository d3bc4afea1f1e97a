package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/collegefest/champboard/internal/errors"
	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/repository"
	"github.com/collegefest/champboard/internal/standings"
)

// CulturalService handles cultural events and their podiums
type CulturalService struct {
	log         logger.Logger
	repo        repository.CulturalRepository
	depts       UniverseProvider
	broadcaster Broadcaster
	now         func() time.Time
}

// NewCulturalService creates a new CulturalService
func NewCulturalService(log logger.Logger, repo repository.CulturalRepository, depts UniverseProvider) *CulturalService {
	return &CulturalService{log: log, repo: repo, depts: depts, now: time.Now}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *CulturalService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CulturalEventInput creates a cultural event
type CulturalEventInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Solo        bool      `json:"solo"`
}

// CulturalEventPatch changes only the fields that are set
type CulturalEventPatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Solo        *bool      `json:"solo,omitempty"`
}

func (p CulturalEventPatch) empty() bool {
	return p.Name == nil && p.Description == nil && p.Venue == nil &&
		p.StartTime == nil && p.EndTime == nil && p.Solo == nil
}

// WinnerInput places a department on an event's podium. Position is a
// float so fractional input is rejected rather than truncated.
type WinnerInput struct {
	Position     float64 `json:"position"`
	DepartmentID string  `json:"department_id"`
	Points       float64 `json:"points"`
}

// WinnerPatch changes only the fields that are set
type WinnerPatch struct {
	Position     *float64 `json:"position,omitempty"`
	DepartmentID *string  `json:"department_id,omitempty"`
	Points       *float64 `json:"points,omitempty"`
}

// WinnerView is a podium entry with the department's display label
type WinnerView struct {
	models.CulturalWinner
	Department string `json:"department"`
}

// ListEvents returns cultural events ordered by start time
func (s *CulturalService) ListEvents(ctx context.Context) ([]models.CulturalEvent, error) {
	events, err := s.repo.ListCulturalEvents(ctx)
	if err != nil {
		return nil, translate(err, "cultural events")
	}
	return events, nil
}

// GetEvent returns a cultural event by id
func (s *CulturalService) GetEvent(ctx context.Context, id string) (*models.CulturalEvent, error) {
	e, err := s.repo.GetCulturalEvent(ctx, id)
	if err != nil {
		return nil, translate(err, "cultural event")
	}
	return e, nil
}

// CreateEvent stores a new cultural event
func (s *CulturalService) CreateEvent(ctx context.Context, in CulturalEventInput) (*models.CulturalEvent, error) {
	e := models.CulturalEvent{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Venue:       strings.TrimSpace(in.Venue),
		StartTime:   in.StartTime.UTC(),
		EndTime:     in.EndTime.UTC(),
		Solo:        in.Solo,
		CreatedAt:   s.now().UTC(),
	}
	if err := validateCulturalEvent(e); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCulturalEvent(ctx, e); err != nil {
		return nil, translate(err, "cultural event")
	}
	s.log.Info("Cultural event created", "id", e.ID, "name", e.Name)
	s.notify(e.ID)
	return &e, nil
}

// UpdateEvent applies a partial update
func (s *CulturalService) UpdateEvent(ctx context.Context, id string, patch CulturalEventPatch) (*models.CulturalEvent, error) {
	if patch.empty() {
		return nil, ErrNoFieldsToUpdate
	}
	e, err := s.repo.GetCulturalEvent(ctx, id)
	if err != nil {
		return nil, translate(err, "cultural event")
	}
	if patch.Name != nil {
		e.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		e.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Venue != nil {
		e.Venue = strings.TrimSpace(*patch.Venue)
	}
	if patch.StartTime != nil {
		e.StartTime = patch.StartTime.UTC()
	}
	if patch.EndTime != nil {
		e.EndTime = patch.EndTime.UTC()
	}
	if patch.Solo != nil {
		e.Solo = *patch.Solo
	}
	if err := validateCulturalEvent(*e); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCulturalEvent(ctx, *e); err != nil {
		return nil, translate(err, "cultural event")
	}
	s.log.Info("Cultural event updated", "id", id)
	s.notify(id)
	return e, nil
}

// DeleteEvent removes an event and its winners
func (s *CulturalService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.repo.DeleteCulturalEvent(ctx, id); err != nil {
		return translate(err, "cultural event")
	}
	s.log.Info("Cultural event deleted", "id", id)
	s.notify(id)
	return nil
}

// ListWinners returns an event's podium ordered by position
func (s *CulturalService) ListWinners(ctx context.Context, eventID string) ([]WinnerView, error) {
	if _, err := s.repo.GetCulturalEvent(ctx, eventID); err != nil {
		return nil, translate(err, "cultural event")
	}
	winners, err := s.repo.ListWinners(ctx, eventID)
	if err != nil {
		return nil, translate(err, "winners")
	}
	universe, err := s.depts.Universe(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WinnerView, len(winners))
	for i, w := range winners {
		out[i] = WinnerView{CulturalWinner: w, Department: universe.Label(w.DepartmentID)}
	}
	return out, nil
}

// CreateWinner places a department at a free podium position
func (s *CulturalService) CreateWinner(ctx context.Context, eventID string, in WinnerInput) (*WinnerView, error) {
	if _, err := s.repo.GetCulturalEvent(ctx, eventID); err != nil {
		return nil, translate(err, "cultural event")
	}
	position, err := wholePosition(in.Position)
	if err != nil {
		return nil, err
	}
	w := models.CulturalWinner{
		ID:           uuid.NewString(),
		EventID:      eventID,
		Position:     position,
		DepartmentID: strings.TrimSpace(in.DepartmentID),
		Points:       in.Points,
		CreatedAt:    s.now().UTC(),
	}
	label, err := s.validateWinner(ctx, w)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateWinner(ctx, w); err != nil {
		if err == repository.ErrDuplicate {
			return nil, ErrPositionTaken
		}
		return nil, translate(err, "winner")
	}
	s.log.Info("Winner recorded", "event_id", eventID, "position", w.Position, "department", w.DepartmentID, "points", w.Points)
	s.notify(eventID)
	return &WinnerView{CulturalWinner: w, Department: label}, nil
}

// UpdateWinner applies a partial update to a podium entry of eventID
func (s *CulturalService) UpdateWinner(ctx context.Context, eventID, winnerID string, patch WinnerPatch) (*WinnerView, error) {
	if patch.Position == nil && patch.DepartmentID == nil && patch.Points == nil {
		return nil, ErrNoFieldsToUpdate
	}
	w, err := s.ownedWinner(ctx, eventID, winnerID)
	if err != nil {
		return nil, err
	}
	if patch.Position != nil {
		position, err := wholePosition(*patch.Position)
		if err != nil {
			return nil, err
		}
		w.Position = position
	}
	if patch.DepartmentID != nil {
		w.DepartmentID = strings.TrimSpace(*patch.DepartmentID)
	}
	if patch.Points != nil {
		w.Points = *patch.Points
	}
	label, err := s.validateWinner(ctx, *w)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateWinner(ctx, *w); err != nil {
		if err == repository.ErrDuplicate {
			return nil, ErrPositionTaken
		}
		return nil, translate(err, "winner")
	}
	s.log.Info("Winner updated", "id", winnerID, "event_id", eventID, "position", w.Position)
	s.notify(eventID)
	return &WinnerView{CulturalWinner: *w, Department: label}, nil
}

// DeleteWinner removes a podium entry of eventID
func (s *CulturalService) DeleteWinner(ctx context.Context, eventID, winnerID string) error {
	if _, err := s.ownedWinner(ctx, eventID, winnerID); err != nil {
		return err
	}
	if err := s.repo.DeleteWinner(ctx, winnerID); err != nil {
		return translate(err, "winner")
	}
	s.log.Info("Winner deleted", "id", winnerID, "event_id", eventID)
	s.notify(eventID)
	return nil
}

func (s *CulturalService) ownedWinner(ctx context.Context, eventID, winnerID string) (*models.CulturalWinner, error) {
	w, err := s.repo.GetWinner(ctx, winnerID)
	if err != nil {
		return nil, translate(err, "winner")
	}
	if w.EventID != eventID {
		return nil, translate(repository.ErrNotFound, "winner")
	}
	return w, nil
}

// validateWinner checks the placement and the department, and that no other
// winner of the event holds the position. It returns the department label.
func (s *CulturalService) validateWinner(ctx context.Context, w models.CulturalWinner) (string, error) {
	if err := standings.ValidatePlacement(w.Position, w.Points); err != nil {
		return "", err
	}
	universe, err := s.depts.Universe(ctx)
	if err != nil {
		return "", err
	}
	if err := universe.Validate(w.DepartmentID); err != nil {
		return "", err
	}
	existing, err := s.repo.ListWinners(ctx, w.EventID)
	if err != nil {
		return "", translate(err, "winners")
	}
	for _, other := range existing {
		if other.ID != w.ID && other.Position == w.Position {
			return "", ErrPositionTaken
		}
	}
	return universe.Label(w.DepartmentID), nil
}

func validateCulturalEvent(e models.CulturalEvent) error {
	if e.Name == "" {
		return errors.Validation("name is required")
	}
	return validateTimes(e.StartTime, e.EndTime)
}

func wholePosition(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v < 1 || v > math.MaxInt32 {
		return 0, errors.Validation("position must be a positive integer")
	}
	return int(v), nil
}

func (s *CulturalService) notify(eventID string) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastStandingsUpdated(models.DomainCultural, eventID)
	}
}
