package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/collegefest/champboard/internal/departments"
	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/standings"
)

// LeaderboardRepository defines the repository methods needed by LeaderboardService
type LeaderboardRepository interface {
	ListAllScores(ctx context.Context) ([]models.ScoreRecord, error)
	ListAllWinners(ctx context.Context) ([]models.CulturalWinner, error)
}

// LeaderboardService computes the overall championship standings
type LeaderboardService struct {
	log   logger.Logger
	repo  LeaderboardRepository
	depts UniverseProvider
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(log logger.Logger, repo LeaderboardRepository, depts UniverseProvider) *LeaderboardService {
	return &LeaderboardService{log: log, repo: repo, depts: depts}
}

// LeaderboardEntry is one ranked department in an overall table
type LeaderboardEntry struct {
	Position     int     `json:"position"`
	DepartmentID string  `json:"department_id"`
	Department   string  `json:"department"`
	Points       float64 `json:"points"`
	Wins         int     `json:"wins"`
}

// Leaderboard holds the sports and cultural overall tables
type Leaderboard struct {
	Version  string             `json:"version"`
	Sports   []LeaderboardEntry `json:"sports"`
	Cultural []LeaderboardEntry `json:"cultural"`
}

// Leaderboard sums every event per department and ranks the totals. Every
// department in the universe appears in both tables, with zeros when it has
// no results yet.
func (s *LeaderboardService) Leaderboard(ctx context.Context) (*Leaderboard, error) {
	universe, err := s.depts.Universe(ctx)
	if err != nil {
		return nil, err
	}

	var (
		scores  []models.ScoreRecord
		winners []models.CulturalWinner
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		scores, err = s.repo.ListAllScores(gctx)
		return translate(err, "scores")
	})
	g.Go(func() error {
		var err error
		winners, err = s.repo.ListAllWinners(gctx)
		return translate(err, "winners")
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("Leaderboard load failed", "error", err)
		return nil, err
	}

	ids := universe.IDs()
	return &Leaderboard{
		Version:  universe.Version(),
		Sports:   rankSummaries(universe, standings.AggregateScores(ids, scores)),
		Cultural: rankSummaries(universe, standings.AggregateWinners(ids, winners)),
	}, nil
}

func rankSummaries(universe *departments.Universe, summaries []standings.Summary) []LeaderboardEntry {
	placements := standings.SummaryRanker().Rank(summaries)
	out := make([]LeaderboardEntry, len(placements))
	for i, p := range placements {
		out[i] = LeaderboardEntry{
			Position:     p.Position,
			DepartmentID: p.Entry.DepartmentID,
			Department:   universe.Label(p.Entry.DepartmentID),
			Points:       p.Entry.Points,
			Wins:         p.Entry.Wins,
		}
	}
	return out
}
