package models

import "time"

type LiveStatus string

const (
	LiveRunning LiveStatus = "running"
	LivePaused  LiveStatus = "paused"
	LiveEnded   LiveStatus = "ended"
)

// LiveGameID is the fixed primary key of the singleton live_game row. The row
// is overwritten in place; at most one live game is meaningful at a time.
const LiveGameID = 1

// LiveGame is the shared "what's on screen right now" broadcast record.
// Readers use UpdatedAt to discard stale reads and ResetAt to detect an
// operator-issued hard reset. Last writer wins; there is no conflict detection
// beyond the timestamp.
type LiveGame struct {
	ID          int        `json:"id" db:"id"`
	Status      LiveStatus `json:"status" db:"status"`
	Mode        MatchMode  `json:"mode" db:"mode"`
	MatchID     *int       `json:"match_id,omitempty" db:"match_id"`
	MatchNumber *int       `json:"match_no,omitempty" db:"match_no"`
	Quarter     int        `json:"quarter" db:"quarter"`
	TimeLeft    int        `json:"time_left" db:"time_left"`
	TeamA       string     `json:"team_a" db:"team_a"`
	TeamB       string     `json:"team_b" db:"team_b"`
	ScoreA      int        `json:"score_a" db:"score_a"`
	ScoreB      int        `json:"score_b" db:"score_b"`
	ResetAt     *time.Time `json:"reset_at,omitempty" db:"reset_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
