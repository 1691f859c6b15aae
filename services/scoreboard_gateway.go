package services

import (
	"context"
	"errors"

	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/repositories"
	"github.com/rachao-basket/scoreboard/scoreboard"
)

// scoreboardGateway adapts the repositories to the state machine's gateway
// contract. Not-found lookups come back as (nil, nil): the machine treats a
// missing row as a normal answer, not a failure.
type scoreboardGateway struct {
	matchRepo  repositories.MatchRepository
	resultRepo repositories.ResultRepository
	liveRepo   repositories.LiveGameRepository
}

func NewScoreboardGateway(
	matchRepo repositories.MatchRepository,
	resultRepo repositories.ResultRepository,
	liveRepo repositories.LiveGameRepository,
) scoreboard.Gateway {
	return &scoreboardGateway{
		matchRepo:  matchRepo,
		resultRepo: resultRepo,
		liveRepo:   liveRepo,
	}
}

func (g *scoreboardGateway) FetchNextMatchNumber(ctx context.Context, dateISO string, mode models.MatchMode) (int, error) {
	return g.matchRepo.NextMatchNumber(ctx, dateISO, mode)
}

func (g *scoreboardGateway) FindPendingQuickMatch(ctx context.Context, dateISO string, number int) (*models.Match, error) {
	match, err := g.matchRepo.FindPendingQuick(ctx, dateISO, number)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return nil, nil
	}
	return match, err
}

func (g *scoreboardGateway) FindLatestPendingQuick(ctx context.Context, dateISO string) (*models.Match, error) {
	match, err := g.matchRepo.FindLatestPendingQuick(ctx, dateISO)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return nil, nil
	}
	return match, err
}

func (g *scoreboardGateway) CreateMatch(ctx context.Context, match *models.Match) error {
	return g.matchRepo.Create(ctx, nil, match)
}

func (g *scoreboardGateway) UpdateMatch(ctx context.Context, id int, upd repositories.MatchUpdate) error {
	return g.matchRepo.Update(ctx, id, upd)
}

func (g *scoreboardGateway) DeleteMatch(ctx context.Context, id int) error {
	err := g.matchRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return nil
	}
	return err
}

func (g *scoreboardGateway) DeletePendingQuickMatch(ctx context.Context, dateISO string, number int) error {
	return g.matchRepo.DeletePendingQuick(ctx, dateISO, number)
}

func (g *scoreboardGateway) UpsertMatchResult(ctx context.Context, result *models.MatchResult) error {
	return g.resultRepo.Upsert(ctx, result)
}

func (g *scoreboardGateway) FetchLiveGame(ctx context.Context) (*models.LiveGame, error) {
	live, err := g.liveRepo.Get(ctx)
	if errors.Is(err, repositories.ErrLiveGameNotFound) {
		return nil, nil
	}
	return live, err
}

func (g *scoreboardGateway) UpsertLiveGame(ctx context.Context, live models.LiveGame) error {
	return g.liveRepo.Upsert(ctx, live)
}
