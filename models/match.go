package models

import "time"

type MatchMode string

const (
	ModeQuick      MatchMode = "quick"
	ModeTournament MatchMode = "tournament"
)

type MatchStatus string

const (
	MatchStatusPending MatchStatus = "pending"
	MatchStatusDone    MatchStatus = "done"
)

// Match is one scored game. Quick matches are numbered sequentially within a
// day; tournament matches are scheduled ahead of time with a per-quarter
// duration plan (len(Durations) == Quarters).
type Match struct {
	ID           int         `json:"id" db:"id"`
	DateISO      string      `json:"date_iso" db:"date_iso"`
	Mode         MatchMode   `json:"mode" db:"mode"`
	TeamAID      *int        `json:"team_a_id,omitempty" db:"team_a_id"`
	TeamBID      *int        `json:"team_b_id,omitempty" db:"team_b_id"`
	TeamAName    string      `json:"team_a_name" db:"team_a_name"`
	TeamBName    string      `json:"team_b_name" db:"team_b_name"`
	Quarters     int         `json:"quarters" db:"quarters"`
	Durations    []int64     `json:"durations" db:"durations"`
	Status       MatchStatus `json:"status" db:"status"`
	MatchNumber  *int        `json:"match_no,omitempty" db:"match_no"`
	TournamentID *int        `json:"tournament_id,omitempty" db:"tournament_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	Result *MatchResult `json:"result,omitempty" db:"-"`
}

// MatchResult is the 1:1 final sheet of a done match. Basket columns hold the
// combined counts of both teams per denomination.
type MatchResult struct {
	MatchID    int       `json:"match_id" db:"match_id"`
	ScoreA     int       `json:"score_a" db:"score_a"`
	ScoreB     int       `json:"score_b" db:"score_b"`
	Baskets1   int       `json:"baskets1" db:"baskets1"`
	Baskets2   int       `json:"baskets2" db:"baskets2"`
	Baskets3   int       `json:"baskets3" db:"baskets3"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
}
