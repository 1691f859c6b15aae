package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/repositories"
)

type stubEntryRepo struct {
	entries []*models.PlayerEntry
}

func (r *stubEntryRepo) Upsert(ctx context.Context, entry *models.PlayerEntry) error {
	for _, e := range r.entries {
		if e.MatchID == entry.MatchID && e.UserID == entry.UserID {
			e.TeamSide = entry.TeamSide
			entry.ID = e.ID
			return nil
		}
	}
	entry.ID = len(r.entries) + 1
	r.entries = append(r.entries, entry)
	return nil
}
func (r *stubEntryRepo) ListByMatch(ctx context.Context, matchID int) ([]*models.PlayerEntry, error) {
	var out []*models.PlayerEntry
	for _, e := range r.entries {
		if e.MatchID == matchID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (r *stubEntryRepo) ListByUserRange(ctx context.Context, userID int, dateFrom, dateTo string) ([]*models.PlayerEntry, error) {
	var out []*models.PlayerEntry
	for _, e := range r.entries {
		if e.UserID == userID && e.DateISO >= dateFrom && e.DateISO <= dateTo {
			out = append(out, e)
		}
	}
	return out, nil
}
func (r *stubEntryRepo) Delete(ctx context.Context, matchID, userID int) error {
	for i, e := range r.entries {
		if e.MatchID == matchID && e.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repositories.ErrEntryNotFound
}

func TestCheckInMovesPlayerBetweenSides(t *testing.T) {
	matchRepo := &stubMatchRepo{matches: []*models.Match{
		{ID: 1, DateISO: "2025-07-12", Mode: models.ModeQuick, Status: models.MatchStatusPending},
	}}
	entryRepo := &stubEntryRepo{}
	svc := NewCheckInService(entryRepo, matchRepo)
	ctx := context.Background()

	first, err := svc.CheckIn(ctx, 1, 10, models.SideA)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if first.DateISO != "2025-07-12" {
		t.Errorf("entry must inherit the match date, got %q", first.DateISO)
	}

	// A second check-in moves the player, never duplicates the entry.
	if _, err := svc.CheckIn(ctx, 1, 10, models.SideB); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	roster, err := svc.Roster(ctx, 1)
	if err != nil {
		t.Fatalf("Roster: %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("expected one entry, got %d", len(roster))
	}
	if roster[0].TeamSide != models.SideB {
		t.Errorf("expected the player on side B, got %s", roster[0].TeamSide)
	}
}

func TestCheckInValidatesSideAndMatch(t *testing.T) {
	svc := NewCheckInService(&stubEntryRepo{}, &stubMatchRepo{})
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, 1, 10, "C"); !errors.Is(err, ErrInvalidTeamSide) {
		t.Errorf("expected ErrInvalidTeamSide, got %v", err)
	}
	if _, err := svc.CheckIn(ctx, 99, 10, models.SideA); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestCheckOut(t *testing.T) {
	matchRepo := &stubMatchRepo{matches: []*models.Match{
		{ID: 1, DateISO: "2025-07-12", Mode: models.ModeQuick, Status: models.MatchStatusPending},
	}}
	entryRepo := &stubEntryRepo{}
	svc := NewCheckInService(entryRepo, matchRepo)
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, 1, 10, models.SideA); err != nil {
		t.Fatal(err)
	}
	if err := svc.CheckOut(ctx, 1, 10); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if err := svc.CheckOut(ctx, 1, 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on a second check-out, got %v", err)
	}
}

func TestUserEntriesValidatesRange(t *testing.T) {
	svc := NewCheckInService(&stubEntryRepo{}, &stubMatchRepo{})
	ctx := context.Background()

	if _, err := svc.UserEntries(ctx, 10, "2025-07-13", "2025-07-12"); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got %v", err)
	}
}
