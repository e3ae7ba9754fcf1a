package brackets

import (
	"context"
	"errors"
	"testing"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"
)

func newPair(id string, card models.CardLabel) models.Pair {
	return models.Pair{
		ID:   id,
		Name: "Pair " + id,
		Card: card,
		Players: [2]models.PlayerRef{
			{ID: id + "-1", Name: "Player " + id + "1"},
			{ID: id + "-2", Name: "Player " + id + "2"},
		},
	}
}

// cardsPairs returns the four seeded pairs in A, K, Q, J order.
func cardsPairs() []models.Pair {
	return []models.Pair{
		newPair("A", models.CardAce),
		newPair("K", models.CardKing),
		newPair("Q", models.CardQueen),
		newPair("J", models.CardJack),
	}
}

func TestCardsGenerator_GenerateBracket(t *testing.T) {
	gen := NewCardsGenerator()
	if gen.GetName() != "Cards" {
		t.Errorf("expected name Cards, got %q", gen.GetName())
	}

	matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{Pairs: cardsPairs()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	expected := []struct {
		id, teamA, teamB string
		court            int
	}{
		{"R1C1", "A", "K", 1},
		{"R1C2", "Q", "J", 2},
	}
	for i, want := range expected {
		m := matches[i]
		if m.ID != want.id || m.Court != want.court || m.Round != 1 {
			t.Errorf("match %d: got id=%s round=%d court=%d", i, m.ID, m.Round, m.Court)
		}
		if m.TeamA.ID != want.teamA || m.TeamB.ID != want.teamB {
			t.Errorf("match %s: got %s vs %s, want %s vs %s", m.ID, m.TeamA.ID, m.TeamB.ID, want.teamA, want.teamB)
		}
		if m.State != models.MatchStatePending || m.Result != nil {
			t.Errorf("match %s should start pending without a result", m.ID)
		}
	}
}

func TestValidatePairs(t *testing.T) {
	dupPair := cardsPairs()
	dupPair[3] = dupPair[0]

	sharedPlayer := cardsPairs()
	sharedPlayer[2].Players[1].ID = "A-1"

	noPlayer := cardsPairs()
	noPlayer[1].Players[0].ID = ""

	samePlayers := cardsPairs()
	samePlayers[1].Players[1].ID = samePlayers[1].Players[0].ID

	noID := cardsPairs()
	noID[0].ID = ""

	tests := []struct {
		name    string
		pairs   []models.Pair
		wantErr error
	}{
		{"valid", cardsPairs(), nil},
		{"too few pairs", cardsPairs()[:3], ErrCardsPairCount},
		{"too many pairs", append(cardsPairs(), newPair("X", "")), ErrCardsPairCount},
		{"duplicate pair", dupPair, ErrDuplicatePair},
		{"player in two pairs", sharedPlayer, ErrPlayerInTwoPairs},
		{"missing player id", noPlayer, models.ErrPlayerIDRequired},
		{"same player twice", samePlayers, models.ErrPlayerRepeatedPair},
		{"missing pair id", noID, models.ErrPairIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePairs(tt.pairs)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAssignCards(t *testing.T) {
	in := cardsPairs()
	for i := range in {
		in[i].Card = ""
	}
	in[2].Card = models.CardJack

	out := AssignCards(in)

	want := []models.CardLabel{models.CardAce, models.CardKing, models.CardJack, models.CardJack}
	for i, label := range want {
		if out[i].Card != label {
			t.Errorf("pair %d: expected card %s, got %s", i, label, out[i].Card)
		}
	}
	if in[0].Card != "" {
		t.Error("AssignCards must not modify its input")
	}
}

func TestMatchUID(t *testing.T) {
	if got := MatchUID(2, 1); got != "R2C1" {
		t.Errorf("expected R2C1, got %s", got)
	}
}
