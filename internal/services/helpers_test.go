package services_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/collegefest/champboard/internal/errors"
	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/repository"
	"github.com/collegefest/champboard/internal/services"
	"github.com/collegefest/champboard/internal/testutil"
)

var eventStart = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// quietLogger discards output so test logs stay readable
func quietLogger() logger.Logger {
	return logger.NewWithOptions(logger.Options{Level: slog.LevelError, Writer: &bytes.Buffer{}})
}

type broadcast struct {
	domain  models.Domain
	eventID string
}

// recordingBroadcaster captures standings notifications
type recordingBroadcaster struct {
	mu    sync.Mutex
	calls []broadcast
}

func (b *recordingBroadcaster) BroadcastStandingsUpdated(domain models.Domain, eventID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcast{domain, eventID})
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *recordingBroadcaster) last() broadcast {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.calls) == 0 {
		return broadcast{}
	}
	return b.calls[len(b.calls)-1]
}

// newDepartmentService seeds CSE, ECE and ME into repo
func newDepartmentService(t *testing.T, repo services.DepartmentServiceRepository) *services.DepartmentService {
	t.Helper()
	svc := services.NewDepartmentService(quietLogger(), repo, "test")
	testutil.SeedDepartments(t, repo, "CSE,ECE,ME")
	return svc
}

func sportInput(name string) services.SportEventInput {
	return services.SportEventInput{
		Name:      name,
		Gender:    models.GenderMen,
		Venue:     "Main Ground",
		StartTime: eventStart,
		EndTime:   eventStart.Add(6 * time.Hour),
	}
}

func culturalInput(name string) services.CulturalEventInput {
	return services.CulturalEventInput{
		Name:      name,
		Venue:     "Open Air Theatre",
		StartTime: eventStart,
		EndTime:   eventStart.Add(3 * time.Hour),
	}
}

func mustCreateSport(t *testing.T, svc *services.SportService, name string) *models.SportEvent {
	t.Helper()
	e, err := svc.CreateEvent(context.Background(), sportInput(name))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	return e
}

func findScore(t *testing.T, repo repository.SportRepository, eventID, dept string) models.ScoreRecord {
	t.Helper()
	scores, err := repo.ListScores(context.Background(), eventID)
	if err != nil {
		t.Fatalf("ListScores failed: %v", err)
	}
	for _, s := range scores {
		if s.DepartmentID == dept {
			return s
		}
	}
	t.Fatalf("no score record for %s in %s", dept, eventID)
	return models.ScoreRecord{}
}

func expectKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := errors.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

func ptr[T any](v T) *T { return &v }
