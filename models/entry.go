package models

import "time"

type TeamSide string

const (
	SideA TeamSide = "A"
	SideB TeamSide = "B"
)

// PlayerEntry records a player's check-in to one side of a match.
type PlayerEntry struct {
	ID        int       `json:"id" db:"id"`
	MatchID   int       `json:"match_id" db:"match_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	TeamSide  TeamSide  `json:"team_side" db:"team_side"`
	DateISO   string    `json:"date_iso" db:"date_iso"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
