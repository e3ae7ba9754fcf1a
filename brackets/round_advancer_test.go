package brackets

import (
	"testing"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"
)

func TestGenerateRound2_Crossover(t *testing.T) {
	_, round1 := round1Played(t)

	round2 := GenerateRound2(round1)
	if len(round2) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(round2))
	}

	tests := []struct {
		id           string
		court        int
		teamA, teamB string
	}{
		{"R2C1", 1, "A", "J"},
		{"R2C2", 2, "K", "Q"},
	}
	for i, want := range tests {
		m := round2[i]
		if m.ID != want.id || m.Round != 2 || m.Court != want.court {
			t.Errorf("match %d: got id=%s round=%d court=%d", i, m.ID, m.Round, m.Court)
		}
		if m.TeamA.ID != want.teamA || m.TeamB.ID != want.teamB {
			t.Errorf("%s: got %s vs %s, want %s vs %s", m.ID, m.TeamA.ID, m.TeamB.ID, want.teamA, want.teamB)
		}
		if m.State != models.MatchStatePending || m.Result != nil {
			t.Errorf("%s should be pending without a result", m.ID)
		}
	}
}

func TestGenerateRound2_WinnersAndLosersSplit(t *testing.T) {
	pairs := cardsPairs()
	a, k, q, j := pairs[0], pairs[1], pairs[2], pairs[3]

	tests := []struct {
		name        string
		c1A, c1B    int
		c2A, c2B    int
		wantWinners map[string]bool
		wantLosers  map[string]bool
	}{
		{"both team A win", 6, 2, 6, 3, map[string]bool{"A": true, "Q": true}, map[string]bool{"K": true, "J": true}},
		{"both team B win", 1, 6, 3, 6, map[string]bool{"K": true, "J": true}, map[string]bool{"A": true, "Q": true}},
		{"mixed", 6, 4, 2, 6, map[string]bool{"A": true, "J": true}, map[string]bool{"K": true, "Q": true}},
		{"ties go to team B", 5, 5, 4, 4, map[string]bool{"K": true, "J": true}, map[string]bool{"A": true, "Q": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round1 := []models.Match{
				playedMatch(t, "R1C1", 1, 1, a, k, tt.c1A, tt.c1B),
				playedMatch(t, "R1C2", 1, 2, q, j, tt.c2A, tt.c2B),
			}
			round2 := GenerateRound2(round1)
			if len(round2) != 2 {
				t.Fatalf("expected 2 matches, got %d", len(round2))
			}
			winners := map[string]bool{round2[0].TeamA.ID: true, round2[0].TeamB.ID: true}
			losers := map[string]bool{round2[1].TeamA.ID: true, round2[1].TeamB.ID: true}
			for id := range tt.wantWinners {
				if !winners[id] {
					t.Errorf("court 1 should contain %s, got %v", id, winners)
				}
			}
			for id := range tt.wantLosers {
				if !losers[id] {
					t.Errorf("court 2 should contain %s, got %v", id, losers)
				}
			}
		})
	}
}

func TestGenerateRound2_NotReady(t *testing.T) {
	pairs, played := round1Played(t)
	pending := played[1]
	pending.Result = nil
	pending.State = models.MatchStatePending

	tests := []struct {
		name   string
		round1 []models.Match
	}{
		{"no matches", nil},
		{"only court 1", []models.Match{played[0]}},
		{"only court 2", []models.Match{played[1]}},
		{"court 2 pending", []models.Match{played[0], pending}},
		{"both pending", mustSeed(t, pairs)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateRound2(tt.round1)
			if got == nil || len(got) != 0 {
				t.Errorf("expected an empty slice, got %v", got)
			}
		})
	}
}

func TestGenerateRound2_InputOrderIrrelevant(t *testing.T) {
	_, round1 := round1Played(t)
	reversed := []models.Match{round1[1], round1[0]}

	round2 := GenerateRound2(reversed)
	if len(round2) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(round2))
	}
	if round2[0].TeamA.ID != "A" || round2[0].TeamB.ID != "J" {
		t.Errorf("court 1: got %s vs %s", round2[0].TeamA.ID, round2[0].TeamB.ID)
	}
}

func mustSeed(t *testing.T, pairs []models.Pair) []models.Match {
	t.Helper()
	ctrl, err := NewCardsController(pairs, ControllerOptions{})
	if err != nil {
		t.Fatalf("NewCardsController: %v", err)
	}
	return ctrl.Matches()
}
