package models

import "time"

// MatchResult is one finished game in match_results.
type MatchResult struct {
	ID         int64      `db:"id" json:"id"`
	Room       string     `db:"room" json:"room"`
	Player1    string     `db:"player1" json:"player1"`
	Player2    string     `db:"player2" json:"player2"`
	Score1     int        `db:"score1" json:"score1"`
	Score2     int        `db:"score2" json:"score2"`
	Winner     int        `db:"winner" json:"winner"`
	StartedAt  *time.Time `db:"started_at" json:"started_at,omitempty"`
	FinishedAt time.Time  `db:"finished_at" json:"finished_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
