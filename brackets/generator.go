package brackets

import (
	"context"
	"fmt"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"
)

type GenerateBracketParams struct {
	Pairs []models.Pair
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error)

	GetName() string
}

// MatchUID builds the stable match identifier for a round/court slot, e.g. "R2C1".
func MatchUID(round, court int) string {
	return fmt.Sprintf("R%dC%d", round, court)
}
