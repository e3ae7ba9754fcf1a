package brackets

import (
	"context"
	"fmt"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"
)

type ControllerOptions struct {
	// RejectTiedScores refuses results with equal scores instead of awarding them to team B.
	RejectTiedScores bool
}

// RecordOutcome is everything a scorekeeper screen needs after a result is saved.
type RecordOutcome struct {
	Match      models.Match
	Standings  []models.Standing
	Advanced   bool
	NewMatches []models.Match
	Status     models.CardsStatus
}

// CardsController owns the authoritative match list of one Cards tournament. It is not
// safe for concurrent use.
type CardsController struct {
	opts         ControllerOptions
	pairs        []models.Pair
	matches      []models.Match
	currentRound int
	standings    []models.Standing
}

// NewCardsController validates the pairs and seeds round 1.
func NewCardsController(pairs []models.Pair, opts ControllerOptions) (*CardsController, error) {
	owned := make([]models.Pair, len(pairs))
	copy(owned, pairs)

	round1, err := NewCardsGenerator().GenerateBracket(context.Background(), GenerateBracketParams{Pairs: owned})
	if err != nil {
		return nil, err
	}

	c := &CardsController{
		opts:         opts,
		pairs:        owned,
		matches:      round1,
		currentRound: 1,
	}
	if err := c.recompute(); err != nil {
		return nil, err
	}
	return c, nil
}

// RestoreCardsController rebuilds a controller from a stored snapshot. Winners are derived
// again from the stored scores, and a snapshot the state machine could not have produced is
// rejected. A round 1 stored complete but never advanced moves on to round 2.
func RestoreCardsController(pairs []models.Pair, matches []models.Match, currentRound int, opts ControllerOptions) (*CardsController, error) {
	if err := ValidatePairs(pairs); err != nil {
		return nil, err
	}
	if currentRound < 1 || currentRound > 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRound, currentRound)
	}

	known := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		known[p.ID] = true
	}
	seen := make(map[string]bool, len(matches))
	restored := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if seen[m.ID] {
			return nil, fmt.Errorf("match %s listed twice: %w", m.ID, ErrDuplicateMatch)
		}
		seen[m.ID] = true
		if m.TeamA.ID == m.TeamB.ID {
			return nil, fmt.Errorf("match %s: %w", m.ID, ErrSamePair)
		}
		if !known[m.TeamA.ID] || !known[m.TeamB.ID] {
			return nil, fmt.Errorf("match %s: %w", m.ID, ErrUnknownPair)
		}
		if m.Round < 1 || m.Round > currentRound {
			return nil, fmt.Errorf("match %s in round %d: %w", m.ID, m.Round, ErrInvalidRound)
		}

		r := m.Clone()
		r.State = models.MatchStatePending
		if m.Result != nil {
			result, err := models.NewMatchResult(models.ScoreEntry{
				ScoreA:      m.Result.ScoreA,
				ScoreB:      m.Result.ScoreB,
				GoldenPoint: m.Result.IsGoldenPoint,
			})
			if err != nil {
				return nil, fmt.Errorf("match %s: %w", m.ID, err)
			}
			r.Result = &result
			r.State = models.MatchStateRecorded
		}
		restored = append(restored, r)
	}

	owned := make([]models.Pair, len(pairs))
	copy(owned, pairs)
	c := &CardsController{
		opts:         opts,
		pairs:        owned,
		matches:      restored,
		currentRound: currentRound,
	}
	for round := 1; round <= currentRound; round++ {
		if err := c.checkRoundLayout(round); err != nil {
			return nil, err
		}
	}
	if currentRound == 2 {
		if err := c.checkRound2Pairing(); err != nil {
			return nil, err
		}
	}
	if err := c.recompute(); err != nil {
		return nil, err
	}
	c.checkAdvance()
	return c, nil
}

// checkRoundLayout wants one match per court with every pair playing exactly once.
func (c *CardsController) checkRoundLayout(round int) error {
	matches := c.matchesForRound(round)
	if len(matches) != CardsCourtCount {
		return fmt.Errorf("%w: round %d has %d matches", ErrInvalidSnapshot, round, len(matches))
	}
	courts := make(map[int]bool, CardsCourtCount)
	for _, m := range matches {
		if m.Court < 1 || m.Court > CardsCourtCount || courts[m.Court] {
			return fmt.Errorf("%w: match %s on court %d", ErrInvalidSnapshot, m.ID, m.Court)
		}
		courts[m.Court] = true
	}
	for _, p := range c.pairs {
		games := 0
		for _, m := range matches {
			if m.Involves(p.ID) {
				games++
			}
		}
		if games != 1 {
			return fmt.Errorf("%w: pair %s plays %d matches in round %d", ErrInvalidSnapshot, p.ID, games, round)
		}
	}
	return nil
}

// checkRound2Pairing wants round 2 to be exactly what round 1 results produce.
func (c *CardsController) checkRound2Pairing() error {
	if !c.roundComplete(1) {
		return fmt.Errorf("%w: round 2 started before round 1 was played", ErrInvalidSnapshot)
	}
	want := GenerateRound2(c.matchesForRound(1))
	for _, w := range want {
		for _, m := range c.matchesForRound(2) {
			if m.Court != w.Court {
				continue
			}
			if m.TeamA.ID != w.TeamA.ID || m.TeamB.ID != w.TeamB.ID {
				return fmt.Errorf("%w: match %s pairs %s and %s, round 1 results give %s and %s",
					ErrInvalidSnapshot, m.ID, m.TeamA.ID, m.TeamB.ID, w.TeamA.ID, w.TeamB.ID)
			}
		}
	}
	return nil
}

// RecordResult attaches a result to a pending match of the active round, recomputes the
// standings and, once the round is fully played, generates the next one.
func (c *CardsController) RecordResult(matchID string, entry models.ScoreEntry) (*RecordOutcome, error) {
	idx := c.indexOf(matchID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	m := &c.matches[idx]
	if m.State == models.MatchStateRecorded {
		return nil, fmt.Errorf("%w: %s", ErrResultAlreadyRecorded, matchID)
	}
	if m.Round != c.currentRound {
		return nil, fmt.Errorf("%w: match %s is in round %d, active round is %d", ErrMatchNotInCurrentRound, matchID, m.Round, c.currentRound)
	}

	result, err := models.NewMatchResult(entry)
	if err != nil {
		return nil, err
	}
	if c.opts.RejectTiedScores && result.IsTie() {
		return nil, fmt.Errorf("%w: %d-%d", ErrTiedScore, result.ScoreA, result.ScoreB)
	}

	m.Result = &result
	m.State = models.MatchStateRecorded
	recorded := m.Clone()

	if err := c.recompute(); err != nil {
		return nil, err
	}

	newMatches := c.checkAdvance()

	return &RecordOutcome{
		Match:      recorded,
		Standings:  c.Standings(),
		Advanced:   len(newMatches) > 0,
		NewMatches: models.CloneMatches(newMatches),
		Status:     c.Status(),
	}, nil
}

// checkAdvance moves to round 2 once every round-1 match is recorded. There is no rule
// after round 2, so a finished round 2 just stays put.
func (c *CardsController) checkAdvance() []models.Match {
	if c.currentRound != 1 || !c.roundComplete(1) {
		return nil
	}
	next := GenerateRound2(c.matchesForRound(1))
	if len(next) == 0 {
		return nil
	}
	c.matches = append(c.matches, next...)
	c.currentRound = 2
	return next
}

func (c *CardsController) recompute() error {
	standings, err := CalculateStandings(c.matches, c.pairs)
	if err != nil {
		return err
	}
	c.standings = standings
	return nil
}

func (c *CardsController) indexOf(matchID string) int {
	for i := range c.matches {
		if c.matches[i].ID == matchID {
			return i
		}
	}
	return -1
}

func (c *CardsController) matchesForRound(round int) []models.Match {
	out := make([]models.Match, 0, CardsCourtCount)
	for _, m := range c.matches {
		if m.Round == round {
			out = append(out, m)
		}
	}
	return out
}

func (c *CardsController) roundComplete(round int) bool {
	found := false
	for _, m := range c.matches {
		if m.Round != round {
			continue
		}
		found = true
		if m.State != models.MatchStateRecorded {
			return false
		}
	}
	return found
}

func (c *CardsController) Pairs() []models.Pair {
	out := make([]models.Pair, len(c.pairs))
	copy(out, c.pairs)
	return out
}

func (c *CardsController) Matches() []models.Match {
	return models.CloneMatches(c.matches)
}

func (c *CardsController) MatchesForRound(round int) []models.Match {
	return models.CloneMatches(c.matchesForRound(round))
}

func (c *CardsController) CurrentRound() int {
	return c.currentRound
}

func (c *CardsController) CurrentRoundMatches() []models.Match {
	return c.MatchesForRound(c.currentRound)
}

func (c *CardsController) Standings() []models.Standing {
	out := make([]models.Standing, len(c.standings))
	copy(out, c.standings)
	return out
}

func (c *CardsController) Status() models.CardsStatus {
	if c.currentRound == 1 {
		return models.CardsStatusRound1
	}
	if c.roundComplete(2) {
		return models.CardsStatusComplete
	}
	return models.CardsStatusRound2
}

func (c *CardsController) IsComplete() bool {
	return c.Status() == models.CardsStatusComplete
}
