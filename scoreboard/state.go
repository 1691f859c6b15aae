package scoreboard

import "github.com/rachao-basket/scoreboard/models"

// Baskets counts the made baskets of one team per denomination. The score of
// a team is always One + Two*2 + Three*3; baskets are the only way score
// changes.
type Baskets struct {
	One   int `json:"one"`
	Two   int `json:"two"`
	Three int `json:"three"`
}

func (b Baskets) Points() int {
	return b.One + b.Two*2 + b.Three*3
}

type PromptKind string

const (
	// PromptQuarterEnd asks the operator whether to close the current quarter.
	PromptQuarterEnd PromptKind = "quarter_end"
	// PromptMatchEnd asks the operator whether to close the quick match.
	PromptMatchEnd PromptKind = "match_end"
)

// Prompt is a pending operator decision raised by the machine when the clock
// hits zero. It stays in the state snapshot until resolved by an intent.
type Prompt struct {
	Kind    PromptKind `json:"kind"`
	Message string     `json:"message"`
}

// State is the read-only snapshot handed to the presentation layer. The
// machine is the only writer; screens render this and dispatch intents.
type State struct {
	Mode                   models.MatchMode `json:"mode"`
	MatchID                *int             `json:"match_id,omitempty"`
	QuarterIndex           int              `json:"quarter_index"`
	Quarters               int              `json:"quarters"`
	CurrentDurationSeconds int              `json:"current_duration_seconds"`
	TotalSeconds           int              `json:"total_seconds"`
	Clock                  string           `json:"clock"`
	Running                bool             `json:"running"`
	FinalAdjustment        bool             `json:"final_adjustment"`
	TeamAName              string           `json:"team_a_name"`
	TeamBName              string           `json:"team_b_name"`
	ScoreA                 int              `json:"score_a"`
	ScoreB                 int              `json:"score_b"`
	BasketsA               Baskets          `json:"baskets_a"`
	BasketsB               Baskets          `json:"baskets_b"`
	QuickMatchNumber       int              `json:"quick_match_number"`
	Prompt                 *Prompt          `json:"prompt,omitempty"`
	Alert                  string           `json:"alert,omitempty"`
}
