package standings

import "github.com/collegefest/champboard/internal/models"

// Summary is one department's cumulative result across many events.
// For cultural standings Wins counts first places.
type Summary struct {
	DepartmentID string  `json:"department_id"`
	Points       float64 `json:"points"`
	Wins         int     `json:"wins"`
}

// MatchRanker ranks a single sport event's table:
// points desc, wins desc, losses asc, department asc.
func MatchRanker() *Ranker[models.ScoreRecord] {
	return NewRanker(
		func(s models.ScoreRecord) string { return s.DepartmentID },
		Key[models.ScoreRecord]{Name: "points", Value: func(s models.ScoreRecord) float64 { return s.Points }},
		Key[models.ScoreRecord]{Name: "wins", Value: func(s models.ScoreRecord) float64 { return float64(s.Wins) }},
		Key[models.ScoreRecord]{Name: "losses", Value: func(s models.ScoreRecord) float64 { return float64(s.Losses) }, Direction: Ascending},
	)
}

// SummaryRanker ranks aggregated standings: points desc, wins desc, department asc.
func SummaryRanker() *Ranker[Summary] {
	return NewRanker(
		func(s Summary) string { return s.DepartmentID },
		Key[Summary]{Name: "points", Value: func(s Summary) float64 { return s.Points }},
		Key[Summary]{Name: "wins", Value: func(s Summary) float64 { return float64(s.Wins) }},
	)
}
