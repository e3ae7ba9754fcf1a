package models

import "errors"

var ErrNegativeScore = errors.New("score must not be negative")

type Team string

const (
	TeamA Team = "teamA"
	TeamB Team = "teamB"
)

type MatchState string

const (
	MatchStatePending  MatchState = "pending"
	MatchStateRecorded MatchState = "recorded"
)

// ScoreEntry is what a scorekeeper types in for a finished match.
type ScoreEntry struct {
	ScoreA      int  `json:"score_a"`
	ScoreB      int  `json:"score_b"`
	GoldenPoint bool `json:"golden_point"`
}

type MatchResult struct {
	ScoreA        int  `json:"score_a"`
	ScoreB        int  `json:"score_b"`
	IsGoldenPoint bool `json:"golden_point"`
	Winner        Team `json:"winner"`
}

// NewMatchResult derives the winner from the scores. Team A wins only with a strictly
// higher score; equal scores go to team B.
func NewMatchResult(entry ScoreEntry) (MatchResult, error) {
	if entry.ScoreA < 0 || entry.ScoreB < 0 {
		return MatchResult{}, ErrNegativeScore
	}
	winner := TeamB
	if entry.ScoreA > entry.ScoreB {
		winner = TeamA
	}
	return MatchResult{
		ScoreA:        entry.ScoreA,
		ScoreB:        entry.ScoreB,
		IsGoldenPoint: entry.GoldenPoint,
		Winner:        winner,
	}, nil
}

func (r MatchResult) IsTie() bool {
	return r.ScoreA == r.ScoreB
}

type Match struct {
	ID     string       `json:"id"`
	Round  int          `json:"round"`
	Court  int          `json:"court"`
	TeamA  Pair         `json:"team_a"`
	TeamB  Pair         `json:"team_b"`
	State  MatchState   `json:"state"`
	Result *MatchResult `json:"result,omitempty"`
}

func (m Match) HasResult() bool {
	return m.Result != nil
}

// WinnerPair returns the winning pair; ok is false while the match is pending.
func (m Match) WinnerPair() (Pair, bool) {
	if m.Result == nil {
		return Pair{}, false
	}
	if m.Result.Winner == TeamA {
		return m.TeamA, true
	}
	return m.TeamB, true
}

func (m Match) LoserPair() (Pair, bool) {
	if m.Result == nil {
		return Pair{}, false
	}
	if m.Result.Winner == TeamA {
		return m.TeamB, true
	}
	return m.TeamA, true
}

func (m Match) Involves(pairID string) bool {
	return m.TeamA.ID == pairID || m.TeamB.ID == pairID
}

// Clone returns a copy that shares no memory with m.
func (m Match) Clone() Match {
	c := m
	if m.Result != nil {
		r := *m.Result
		c.Result = &r
	}
	return c
}

func CloneMatches(matches []Match) []Match {
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = m.Clone()
	}
	return out
}
