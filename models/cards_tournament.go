package models

import "time"

type CardsStatus string

const (
	CardsStatusRound1   CardsStatus = "round1_active"
	CardsStatusRound2   CardsStatus = "round2_active"
	CardsStatusComplete CardsStatus = "complete"
)

// CardsNominalRounds is the length of the circuit shown to players. Only two rounds are
// generated today.
const CardsNominalRounds = 3

// CardsTournament is the stored snapshot of a live Cards tournament.
type CardsTournament struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Slug         string      `json:"slug" db:"slug"`
	Pairs        []Pair      `json:"pairs" db:"pairs"`
	Matches      []Match     `json:"matches" db:"matches"`
	CurrentRound int         `json:"current_round" db:"current_round"`
	Status       CardsStatus `json:"status" db:"status"`
	ArchiveURL   *string     `json:"archive_url,omitempty" db:"archive_url"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}
