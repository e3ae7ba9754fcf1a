package models

// Standing is one row of the live table. It is derived from the match list and never stored
// on its own.
type Standing struct {
	PairID        string `json:"pair_id"`
	PairName      string `json:"pair_name"`
	Wins          int    `json:"wins"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	Diff          int    `json:"diff"`
}
