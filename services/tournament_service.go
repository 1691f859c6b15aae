package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rachao-basket/scoreboard/brackets"
	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/repositories"
)

// ScheduleMatchInput describes one tournament fixture to create.
type ScheduleMatchInput struct {
	TournamentID int     `json:"tournament_id"`
	DateISO      string  `json:"date_iso"`
	TeamAID      int     `json:"team_a_id"`
	TeamBID      int     `json:"team_b_id"`
	Quarters     int     `json:"quarters"`
	Durations    []int64 `json:"durations"`
}

type TournamentService interface {
	// EnsureCurrent returns the active tournament for the given day, creating
	// it on first use.
	EnsureCurrent(ctx context.Context, dateISO string) (*models.Tournament, error)
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
	ScheduleMatch(ctx context.Context, input ScheduleMatchInput) (*models.Match, error)
	// GenerateRoundRobin schedules one fixture for every team pairing.
	GenerateRoundRobin(ctx context.Context, tournamentID int, dateISO string, quarters int, durations []int64) ([]*models.Match, error)
	DeleteMatch(ctx context.Context, matchID int) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	resultRepo     repositories.ResultRepository
	teamRepo       repositories.TeamRepository
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	resultRepo repositories.ResultRepository,
	teamRepo repositories.TeamRepository,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		resultRepo:     resultRepo,
		teamRepo:       teamRepo,
	}
}

func (s *tournamentService) EnsureCurrent(ctx context.Context, dateISO string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.FindActiveByDate(ctx, dateISO)
	if err == nil {
		return tournament, nil
	}
	if !errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, fmt.Errorf("failed to look up tournament for %s: %w", dateISO, err)
	}

	tournament = &models.Tournament{
		StartDate: dateISO,
		Status:    models.TournamentActive,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament for %s: %w", dateISO, err)
	}
	return tournament, nil
}

func (s *tournamentService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return match, nil
}

func (s *tournamentService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament %d matches: %w", tournamentID, err)
	}
	if err := attachResults(ctx, s.resultRepo, matches); err != nil {
		return nil, err
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

func (s *tournamentService) ScheduleMatch(ctx context.Context, input ScheduleMatchInput) (*models.Match, error) {
	if err := validateQuarterPlan(input.Quarters, input.Durations); err != nil {
		return nil, err
	}

	teamA, err := s.teamRepo.GetByID(ctx, input.TeamAID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", input.TeamAID, err)
	}
	teamB, err := s.teamRepo.GetByID(ctx, input.TeamBID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", input.TeamBID, err)
	}

	match := &models.Match{
		DateISO:      input.DateISO,
		Mode:         models.ModeTournament,
		TeamAID:      &teamA.ID,
		TeamBID:      &teamB.ID,
		TeamAName:    teamA.Name,
		TeamBName:    teamB.Name,
		Quarters:     input.Quarters,
		Durations:    input.Durations,
		Status:       models.MatchStatusPending,
		TournamentID: &input.TournamentID,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, fmt.Errorf("failed to schedule match: %w", err)
	}
	return match, nil
}

func (s *tournamentService) GenerateRoundRobin(ctx context.Context, tournamentID int, dateISO string, quarters int, durations []int64) ([]*models.Match, error) {
	if err := validateQuarterPlan(quarters, durations); err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	pairings, err := brackets.GenerateRoundRobin(teams)
	if err != nil {
		return nil, ErrNotEnoughTeams
	}

	matches := make([]*models.Match, 0, len(pairings))
	for _, pairing := range pairings {
		order := pairing.Order
		match := &models.Match{
			DateISO:      dateISO,
			Mode:         models.ModeTournament,
			TeamAID:      &pairing.TeamA.ID,
			TeamBID:      &pairing.TeamB.ID,
			TeamAName:    pairing.TeamA.Name,
			TeamBName:    pairing.TeamB.Name,
			Quarters:     quarters,
			Durations:    durations,
			Status:       models.MatchStatusPending,
			MatchNumber:  &order,
			TournamentID: &tournamentID,
		}
		if err := s.matchRepo.Create(ctx, nil, match); err != nil {
			return nil, fmt.Errorf("failed to create fixture %d: %w", pairing.Order, err)
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (s *tournamentService) DeleteMatch(ctx context.Context, matchID int) error {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match.Status == models.MatchStatusDone {
		return ErrMatchAlreadyDone
	}
	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("failed to delete match %d: %w", matchID, err)
	}
	return nil
}

func validateQuarterPlan(quarters int, durations []int64) error {
	if quarters < 1 || len(durations) != quarters {
		return ErrInvalidQuarterPlan
	}
	for _, d := range durations {
		if d <= 0 {
			return ErrInvalidQuarterPlan
		}
	}
	return nil
}
