package standings_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/standings"
)

func score(dept string, points float64, wins, losses int) models.ScoreRecord {
	return models.ScoreRecord{DepartmentID: dept, Points: points, Wins: wins, Losses: losses}
}

func positions[T any](placements []standings.Placement[T]) []int {
	out := make([]int, len(placements))
	for i, p := range placements {
		out[i] = p.Position
	}
	return out
}

func departments(placements []standings.Placement[models.ScoreRecord]) []string {
	out := make([]string, len(placements))
	for i, p := range placements {
		out[i] = p.Entry.DepartmentID
	}
	return out
}

func TestMatchRanker_CompetitionRanking(t *testing.T) {
	ranked := standings.MatchRanker().Rank([]models.ScoreRecord{
		score("ECE", 8, 2, 1),
		score("CSE", 10, 3, 0),
		score("ME", 10, 3, 0),
	})

	assert.Equal(t, []int{1, 1, 3}, positions(ranked))
	assert.Equal(t, []string{"CSE", "ME", "ECE"}, departments(ranked))
}

func TestMatchRanker_SharedTopThenIndexPositions(t *testing.T) {
	ranked := standings.MatchRanker().Rank([]models.ScoreRecord{
		score("D", 10, 1, 0),
		score("C", 30, 4, 0),
		score("B", 30, 5, 0),
		score("A", 30, 5, 0),
	})

	assert.Equal(t, []string{"A", "B", "C", "D"}, departments(ranked))
	assert.Equal(t, []int{1, 1, 3, 4}, positions(ranked))
}

func TestMatchRanker_LossesBreakTiesAscending(t *testing.T) {
	ranked := standings.MatchRanker().Rank([]models.ScoreRecord{
		score("AIML", 12, 4, 3),
		score("ISE", 12, 4, 1),
	})

	assert.Equal(t, []string{"ISE", "AIML"}, departments(ranked))
	assert.Equal(t, []int{1, 2}, positions(ranked))
}

func TestMatchRanker_DepartmentOrderDoesNotSplitPosition(t *testing.T) {
	ranked := standings.MatchRanker().Rank([]models.ScoreRecord{
		score("ME", 6, 2, 1),
		score("CV", 6, 2, 1),
	})

	assert.Equal(t, []string{"CV", "ME"}, departments(ranked))
	assert.Equal(t, []int{1, 1}, positions(ranked))
}

func TestMatchRanker_FractionalPoints(t *testing.T) {
	ranked := standings.MatchRanker().Rank([]models.ScoreRecord{
		score("A", 7.5, 1, 0),
		score("B", 7.25, 1, 0),
		score("C", 7.5, 1, 0),
	})

	assert.Equal(t, []string{"A", "C", "B"}, departments(ranked))
	assert.Equal(t, []int{1, 1, 3}, positions(ranked))
}

func TestMatchRanker_Empty(t *testing.T) {
	ranked := standings.MatchRanker().Rank(nil)

	require.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestMatchRanker_DoesNotModifyInput(t *testing.T) {
	input := []models.ScoreRecord{score("B", 1, 0, 0), score("A", 2, 0, 0)}
	standings.MatchRanker().Rank(input)

	assert.Equal(t, "B", input[0].DepartmentID)
	assert.Equal(t, "A", input[1].DepartmentID)
}

func TestMatchRanker_DeterministicAcrossInputOrders(t *testing.T) {
	records := []models.ScoreRecord{
		score("AE", 9, 3, 0),
		score("CSE", 9, 3, 0),
		score("ECE", 9, 3, 2),
		score("ME", 4, 1, 2),
		score("MBA", 0, 0, 0),
		score("CV", 0, 0, 0),
		score("ISE", 12, 4, 0),
	}
	ranker := standings.MatchRanker()
	want := ranker.Rank(records)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := append([]models.ScoreRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := ranker.Rank(shuffled)
		require.Equal(t, want, got, "shuffle %d changed the ranking", i)
	}
}

func TestMatchRanker_Coverage(t *testing.T) {
	records := []models.ScoreRecord{
		score("A", 3, 1, 0), score("B", 3, 1, 0), score("C", 1, 0, 1), score("D", 0, 0, 2),
	}
	ranked := standings.MatchRanker().Rank(records)

	require.Len(t, ranked, len(records))
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, departments(ranked))
}

func TestRanker_PositionsNeverSkipMoreThanTieGroup(t *testing.T) {
	records := []models.ScoreRecord{
		score("A", 5, 1, 0), score("B", 5, 1, 0), score("C", 5, 1, 0),
		score("D", 4, 1, 0), score("E", 4, 1, 0), score("F", 1, 0, 0),
	}
	ranked := standings.MatchRanker().Rank(records)

	assert.Equal(t, []int{1, 1, 1, 4, 4, 6}, positions(ranked))
	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1].Position, ranked[i].Position
		assert.True(t, cur == prev || cur == i+1, "position %d at index %d after %d", cur, i, prev)
	}
}

func TestRanker_CustomKeys(t *testing.T) {
	type runner struct {
		name string
		time float64
	}
	ranker := standings.NewRanker(
		func(r runner) string { return r.name },
		standings.Key[runner]{Name: "time", Value: func(r runner) float64 { return r.time }, Direction: standings.Ascending},
	)

	ranked := ranker.Rank([]runner{{"b", 12.1}, {"a", 11.9}, {"c", 12.1}})

	assert.Equal(t, []string{"time"}, ranker.Keys())
	assert.Equal(t, "a", ranked[0].Entry.name)
	assert.Equal(t, []int{1, 2, 2}, positions(ranked))
	assert.Equal(t, "b", ranked[1].Entry.name)
}

func TestSummaryRanker_IgnoresLosses(t *testing.T) {
	ranked := standings.SummaryRanker().Rank([]standings.Summary{
		{DepartmentID: "ME", Points: 10, Wins: 1},
		{DepartmentID: "CSE", Points: 10, Wins: 1},
		{DepartmentID: "AE", Points: 10, Wins: 2},
	})

	ids := []string{ranked[0].Entry.DepartmentID, ranked[1].Entry.DepartmentID, ranked[2].Entry.DepartmentID}
	assert.Equal(t, []string{"AE", "CSE", "ME"}, ids)
	assert.Equal(t, []int{1, 2, 2}, positions(ranked))
	assert.Equal(t, []string{"points", "wins"}, standings.SummaryRanker().Keys())
}
