package brackets

import (
	"context"
	"fmt"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"
)

const (
	CardsPairCount  = 4
	CardsCourtCount = 2
)

// CardsGenerator seeds round 1 of the Cards format: the first two pairs meet on court 1,
// the next two on court 2.
type CardsGenerator struct{}

func NewCardsGenerator() BracketGenerator {
	return &CardsGenerator{}
}

func (g *CardsGenerator) GetName() string {
	return "Cards"
}

func (g *CardsGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error) {
	if err := ValidatePairs(params.Pairs); err != nil {
		return nil, err
	}
	pairs := params.Pairs

	matches := make([]models.Match, 0, CardsCourtCount)
	for court := 1; court <= CardsCourtCount; court++ {
		a := pairs[(court-1)*2]
		b := pairs[(court-1)*2+1]
		matches = append(matches, models.Match{
			ID:    MatchUID(1, court),
			Round: 1,
			Court: court,
			TeamA: a,
			TeamB: b,
			State: models.MatchStatePending,
		})
	}
	return matches, nil
}

// ValidatePairs checks the closed set of pairs a Cards tournament is played with.
func ValidatePairs(pairs []models.Pair) error {
	if len(pairs) != CardsPairCount {
		return fmt.Errorf("%w: got %d", ErrCardsPairCount, len(pairs))
	}
	seenPairs := make(map[string]bool, len(pairs))
	seenPlayers := make(map[string]string, len(pairs)*2)
	for _, p := range pairs {
		if err := p.Validate(); err != nil {
			return err
		}
		if seenPairs[p.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicatePair, p.ID)
		}
		seenPairs[p.ID] = true
		for _, pl := range p.Players {
			if other, ok := seenPlayers[pl.ID]; ok {
				return fmt.Errorf("%w: player %s in pairs %s and %s", ErrPlayerInTwoPairs, pl.ID, other, p.ID)
			}
			seenPlayers[pl.ID] = p.ID
		}
	}
	return nil
}

// AssignCards returns a copy of pairs where missing labels are filled with A, K, Q, J by
// seed position. Labels that are already set are kept.
func AssignCards(pairs []models.Pair) []models.Pair {
	out := make([]models.Pair, len(pairs))
	copy(out, pairs)
	for i := range out {
		if out[i].Card == "" && i < len(models.CardsSeedOrder) {
			out[i].Card = models.CardsSeedOrder[i]
		}
	}
	return out
}
