package brackets

import (
	"fmt"
	"sort"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"
)

// CalculateStandings rebuilds the table from scratch out of the recorded results.
// Rows are ordered by wins, then point difference, then points scored; pairs tied on all
// three keep the order they were passed in.
func CalculateStandings(matches []models.Match, pairs []models.Pair) ([]models.Standing, error) {
	standings := make([]models.Standing, len(pairs))
	index := make(map[string]int, len(pairs))
	for i, p := range pairs {
		standings[i] = models.Standing{
			PairID:   p.ID,
			PairName: p.DisplayName(),
		}
		index[p.ID] = i
	}

	for _, m := range matches {
		if m.Result == nil {
			continue
		}
		if m.TeamA.ID == m.TeamB.ID {
			return nil, fmt.Errorf("match %s: %w", m.ID, ErrSamePair)
		}
		ia, okA := index[m.TeamA.ID]
		ib, okB := index[m.TeamB.ID]
		if !okA {
			return nil, fmt.Errorf("match %s, pair %s: %w", m.ID, m.TeamA.ID, ErrUnknownPair)
		}
		if !okB {
			return nil, fmt.Errorf("match %s, pair %s: %w", m.ID, m.TeamB.ID, ErrUnknownPair)
		}

		sA, sB := &standings[ia], &standings[ib]
		sA.PointsFor += m.Result.ScoreA
		sA.PointsAgainst += m.Result.ScoreB
		sB.PointsFor += m.Result.ScoreB
		sB.PointsAgainst += m.Result.ScoreA

		if m.Result.Winner == models.TeamA {
			sA.Wins++
		} else {
			sB.Wins++
		}
	}

	for i := range standings {
		standings[i].Diff = standings[i].PointsFor - standings[i].PointsAgainst
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Diff != b.Diff {
			return a.Diff > b.Diff
		}
		return a.PointsFor > b.PointsFor
	})

	return standings, nil
}
