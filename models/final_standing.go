package models

import "time"

// FinalStanding is a frozen row of the table of a finished tournament.
type FinalStanding struct {
	TournamentID string `json:"tournament_id" db:"tournament_id"`
	Rank         int    `json:"rank" db:"rank"`
	Standing
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// NewFinalStandings ranks standings in the order given, starting at 1.
func NewFinalStandings(tournamentID string, standings []Standing, at time.Time) []*FinalStanding {
	rows := make([]*FinalStanding, len(standings))
	for i, st := range standings {
		rows[i] = &FinalStanding{
			TournamentID: tournamentID,
			Rank:         i + 1,
			Standing:     st,
			RecordedAt:   at,
		}
	}
	return rows
}
