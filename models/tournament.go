package models

import "time"

type TournamentStatus string

const (
	TournamentActive TournamentStatus = "active"
	TournamentDone   TournamentStatus = "done"
)

// Tournament groups the scheduled matches of one rachão day.
type Tournament struct {
	ID        int              `json:"id" db:"id"`
	StartDate string           `json:"start_date" db:"start_date"`
	Status    TournamentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	Matches []Match `json:"matches,omitempty" db:"-"`
}
