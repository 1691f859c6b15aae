package scoreboard

import (
	"context"

	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/repositories"
)

// Gateway is the persistence seam of the state machine: typed wrappers around
// the hosted database for matches, results and the shared live-game record.
// Implementations live in the services package; tests use an in-memory stub.
type Gateway interface {
	FetchNextMatchNumber(ctx context.Context, dateISO string, mode models.MatchMode) (int, error)
	FindPendingQuickMatch(ctx context.Context, dateISO string, number int) (*models.Match, error)
	FindLatestPendingQuick(ctx context.Context, dateISO string) (*models.Match, error)
	CreateMatch(ctx context.Context, match *models.Match) error
	UpdateMatch(ctx context.Context, id int, upd repositories.MatchUpdate) error
	DeleteMatch(ctx context.Context, id int) error
	DeletePendingQuickMatch(ctx context.Context, dateISO string, number int) error
	UpsertMatchResult(ctx context.Context, result *models.MatchResult) error
	FetchLiveGame(ctx context.Context) (*models.LiveGame, error)
	UpsertLiveGame(ctx context.Context, live models.LiveGame) error
}

// Notifier receives every live snapshot the machine broadcasts, in addition to
// the best-effort database write. The websocket hub implements it; polling
// observers read the database row instead. Either path can be swapped without
// touching the machine.
type Notifier interface {
	LiveUpdated(live models.LiveGame)
}

// Sounder emits the audible alert while the clock is inside the warning
// window. Implementations must be cheap; it fires on a sub-second cadence.
type Sounder interface {
	Beep()
}

// SettingsSource exposes the operator preferences and the selected scoreboard
// date. Implemented by the settings.Store.
type SettingsSource interface {
	Settings() models.Settings
	AppDate() string
}
