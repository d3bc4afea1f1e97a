package standings

import "github.com/collegefest/champboard/internal/models"

// AggregateScores sums points and wins per department over every sport
// score record. The result has exactly one row per universe department, in
// universe order; departments without records get a zero row. Records for
// departments outside the universe are ignored.
func AggregateScores(universe []string, records []models.ScoreRecord) []Summary {
	summaries, index := zeroSummaries(universe)
	for _, r := range records {
		i, ok := index[r.DepartmentID]
		if !ok {
			continue
		}
		summaries[i].Points += r.Points
		summaries[i].Wins += r.Wins
	}
	return summaries
}

// AggregateWinners sums podium points per department and counts first
// places as wins. Coverage rules match AggregateScores.
func AggregateWinners(universe []string, winners []models.CulturalWinner) []Summary {
	summaries, index := zeroSummaries(universe)
	for _, w := range winners {
		i, ok := index[w.DepartmentID]
		if !ok {
			continue
		}
		summaries[i].Points += w.Points
		if w.Position == 1 {
			summaries[i].Wins++
		}
	}
	return summaries
}

func zeroSummaries(universe []string) ([]Summary, map[string]int) {
	summaries := make([]Summary, 0, len(universe))
	index := make(map[string]int, len(universe))
	for _, id := range universe {
		if _, dup := index[id]; dup {
			continue
		}
		index[id] = len(summaries)
		summaries = append(summaries, Summary{DepartmentID: id})
	}
	return summaries, index
}
