package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/repositories"
)

type CheckInService interface {
	// CheckIn registers (or moves) a player on one side of a match.
	CheckIn(ctx context.Context, matchID, userID int, side models.TeamSide) (*models.PlayerEntry, error)
	CheckOut(ctx context.Context, matchID, userID int) error
	Roster(ctx context.Context, matchID int) ([]*models.PlayerEntry, error)
	// UserEntries lists a player's check-ins in a date range, used by the
	// "only my games" history filter.
	UserEntries(ctx context.Context, userID int, dateFrom, dateTo string) ([]*models.PlayerEntry, error)
}

type checkInService struct {
	entryRepo repositories.EntryRepository
	matchRepo repositories.MatchRepository
}

func NewCheckInService(entryRepo repositories.EntryRepository, matchRepo repositories.MatchRepository) CheckInService {
	return &checkInService{
		entryRepo: entryRepo,
		matchRepo: matchRepo,
	}
}

func (s *checkInService) CheckIn(ctx context.Context, matchID, userID int, side models.TeamSide) (*models.PlayerEntry, error) {
	if side != models.SideA && side != models.SideB {
		return nil, ErrInvalidTeamSide
	}
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	entry := &models.PlayerEntry{
		MatchID:  match.ID,
		UserID:   userID,
		TeamSide: side,
		DateISO:  match.DateISO,
	}
	if err := s.entryRepo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to check in: %w", err)
	}
	return entry, nil
}

func (s *checkInService) CheckOut(ctx context.Context, matchID, userID int) error {
	if err := s.entryRepo.Delete(ctx, matchID, userID); err != nil {
		if errors.Is(err, repositories.ErrEntryNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check out: %w", err)
	}
	return nil
}

func (s *checkInService) Roster(ctx context.Context, matchID int) ([]*models.PlayerEntry, error) {
	entries, err := s.entryRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	if entries == nil {
		return []*models.PlayerEntry{}, nil
	}
	return entries, nil
}

func (s *checkInService) UserEntries(ctx context.Context, userID int, dateFrom, dateTo string) ([]*models.PlayerEntry, error) {
	if dateFrom == "" || dateTo == "" || dateFrom > dateTo {
		return nil, ErrInvalidDateRange
	}
	entries, err := s.entryRepo.ListByUserRange(ctx, userID, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list player entries: %w", err)
	}
	if entries == nil {
		return []*models.PlayerEntry{}, nil
	}
	return entries, nil
}
