package models

import (
	"errors"
	"fmt"
)

var (
	ErrPairIDRequired     = errors.New("pair id is required")
	ErrPlayerIDRequired   = errors.New("player id is required")
	ErrPlayerRepeatedPair = errors.New("pair must contain two different players")
)

// CardLabel is the seed label of a pair in Cards mode.
type CardLabel string

const (
	CardAce   CardLabel = "A"
	CardKing  CardLabel = "K"
	CardQueen CardLabel = "Q"
	CardJack  CardLabel = "J"
)

// CardsSeedOrder is the order labels are handed out in.
var CardsSeedOrder = [4]CardLabel{CardAce, CardKing, CardQueen, CardJack}

// PlayerRef points at a player owned by the identity provider.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pair is a two-player team that plays together for the whole tournament.
type Pair struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Card    CardLabel    `json:"card,omitempty"`
	Players [2]PlayerRef `json:"players"`
}

func (p Pair) Validate() error {
	if p.ID == "" {
		return ErrPairIDRequired
	}
	for i, pl := range p.Players {
		if pl.ID == "" {
			return fmt.Errorf("pair %s, player %d: %w", p.ID, i+1, ErrPlayerIDRequired)
		}
	}
	if p.Players[0].ID == p.Players[1].ID {
		return fmt.Errorf("pair %s: %w", p.ID, ErrPlayerRepeatedPair)
	}
	return nil
}

// DisplayName falls back to the card label or the ID when the pair has no name.
func (p Pair) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Card != "" {
		return "Pair " + string(p.Card)
	}
	return p.ID
}
