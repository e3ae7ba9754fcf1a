package brackets

import "github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"

// GenerateRound2 crosses the two round-1 courts: winners meet on court 1, losers on
// court 2. It returns an empty slice until both round-1 matches carry a result.
//
// TODO: round 3 cross-match so that every pair plays three games.
func GenerateRound2(round1 []models.Match) []models.Match {
	c1, ok1 := findCourt(round1, 1)
	c2, ok2 := findCourt(round1, 2)
	if !ok1 || !ok2 || !c1.HasResult() || !c2.HasResult() {
		return []models.Match{}
	}

	c1Winner, _ := c1.WinnerPair()
	c1Loser, _ := c1.LoserPair()
	c2Winner, _ := c2.WinnerPair()
	c2Loser, _ := c2.LoserPair()

	return []models.Match{
		{
			ID:    MatchUID(2, 1),
			Round: 2,
			Court: 1,
			TeamA: c1Winner,
			TeamB: c2Winner,
			State: models.MatchStatePending,
		},
		{
			ID:    MatchUID(2, 2),
			Round: 2,
			Court: 2,
			TeamA: c1Loser,
			TeamB: c2Loser,
			State: models.MatchStatePending,
		},
	}
}

func findCourt(matches []models.Match, court int) (models.Match, bool) {
	for _, m := range matches {
		if m.Court == court {
			return m, true
		}
	}
	return models.Match{}, false
}
