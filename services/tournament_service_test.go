package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/repositories"
)

type stubTournamentRepo struct {
	tournaments []*models.Tournament
}

func (r *stubTournamentRepo) Create(ctx context.Context, tournament *models.Tournament) error {
	tournament.ID = len(r.tournaments) + 1
	r.tournaments = append(r.tournaments, tournament)
	return nil
}
func (r *stubTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	for _, t := range r.tournaments {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}
func (r *stubTournamentRepo) FindActiveByDate(ctx context.Context, dateISO string) (*models.Tournament, error) {
	for _, t := range r.tournaments {
		if t.StartDate == dateISO && t.Status == models.TournamentActive {
			return t, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}
func (r *stubTournamentRepo) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.Status = status
	return nil
}

type stubTeamRepo struct {
	teams []*models.Team
}

func (r *stubTeamRepo) Create(ctx context.Context, team *models.Team) error {
	for _, t := range r.teams {
		if t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = len(r.teams) + 1
	r.teams = append(r.teams, team)
	return nil
}
func (r *stubTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	for _, t := range r.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}
func (r *stubTeamRepo) List(ctx context.Context) ([]*models.Team, error) {
	return r.teams, nil
}
func (r *stubTeamRepo) Delete(ctx context.Context, id int) error {
	for i, t := range r.teams {
		if t.ID == id {
			r.teams = append(r.teams[:i], r.teams[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

func newTournamentFixture(teamNames ...string) (TournamentService, *stubMatchRepo, *stubTeamRepo) {
	matchRepo := &stubMatchRepo{}
	teamRepo := &stubTeamRepo{}
	for _, name := range teamNames {
		_ = teamRepo.Create(context.Background(), &models.Team{Name: name})
	}
	svc := NewTournamentService(&stubTournamentRepo{}, matchRepo, &stubResultRepo{}, teamRepo)
	return svc, matchRepo, teamRepo
}

func TestEnsureCurrentCreatesOnce(t *testing.T) {
	repo := &stubTournamentRepo{}
	svc := NewTournamentService(repo, &stubMatchRepo{}, &stubResultRepo{}, &stubTeamRepo{})
	ctx := context.Background()

	first, err := svc.EnsureCurrent(ctx, "2025-07-12")
	if err != nil {
		t.Fatalf("EnsureCurrent: %v", err)
	}
	second, err := svc.EnsureCurrent(ctx, "2025-07-12")
	if err != nil {
		t.Fatalf("EnsureCurrent: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected the same tournament, got %d and %d", first.ID, second.ID)
	}
	if len(repo.tournaments) != 1 {
		t.Errorf("expected one tournament row, got %d", len(repo.tournaments))
	}
}

func TestScheduleMatchValidatesQuarterPlan(t *testing.T) {
	svc, _, _ := newTournamentFixture("Leões", "Tubarões")
	ctx := context.Background()

	cases := []ScheduleMatchInput{
		{TournamentID: 1, DateISO: "2025-07-12", TeamAID: 1, TeamBID: 2, Quarters: 0, Durations: nil},
		{TournamentID: 1, DateISO: "2025-07-12", TeamAID: 1, TeamBID: 2, Quarters: 2, Durations: []int64{600}},
		{TournamentID: 1, DateISO: "2025-07-12", TeamAID: 1, TeamBID: 2, Quarters: 2, Durations: []int64{600, 0}},
	}
	for _, input := range cases {
		if _, err := svc.ScheduleMatch(ctx, input); !errors.Is(err, ErrInvalidQuarterPlan) {
			t.Errorf("input %+v: expected ErrInvalidQuarterPlan, got %v", input, err)
		}
	}
}

func TestScheduleMatchResolvesTeamNames(t *testing.T) {
	svc, matchRepo, _ := newTournamentFixture("Leões", "Tubarões")
	ctx := context.Background()

	match, err := svc.ScheduleMatch(ctx, ScheduleMatchInput{
		TournamentID: 1,
		DateISO:      "2025-07-12",
		TeamAID:      1,
		TeamBID:      2,
		Quarters:     4,
		Durations:    []int64{600, 600, 600, 600},
	})
	if err != nil {
		t.Fatalf("ScheduleMatch: %v", err)
	}
	if match.TeamAName != "Leões" || match.TeamBName != "Tubarões" {
		t.Errorf("unexpected names %q / %q", match.TeamAName, match.TeamBName)
	}
	if match.Status != models.MatchStatusPending || match.Mode != models.ModeTournament {
		t.Errorf("unexpected match %+v", match)
	}
	if len(matchRepo.matches) != 1 {
		t.Errorf("expected one stored match, got %d", len(matchRepo.matches))
	}
}

func TestScheduleMatchUnknownTeam(t *testing.T) {
	svc, _, _ := newTournamentFixture("Leões")
	ctx := context.Background()

	_, err := svc.ScheduleMatch(ctx, ScheduleMatchInput{
		TournamentID: 1, DateISO: "2025-07-12", TeamAID: 1, TeamBID: 99,
		Quarters: 1, Durations: []int64{600},
	})
	if !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestGenerateRoundRobinCreatesAllFixtures(t *testing.T) {
	svc, matchRepo, _ := newTournamentFixture("Leões", "Tubarões", "Águias", "Lobos")
	ctx := context.Background()

	matches, err := svc.GenerateRoundRobin(ctx, 1, "2025-07-12", 2, []int64{600, 600})
	if err != nil {
		t.Fatalf("GenerateRoundRobin: %v", err)
	}
	if len(matches) != 6 {
		t.Fatalf("expected 6 fixtures for 4 teams, got %d", len(matches))
	}
	if len(matchRepo.matches) != 6 {
		t.Errorf("expected 6 stored fixtures, got %d", len(matchRepo.matches))
	}
	for i, m := range matches {
		if m.MatchNumber == nil || *m.MatchNumber != i+1 {
			t.Errorf("fixture %d: unexpected number %v", i, m.MatchNumber)
		}
		if m.Quarters != 2 || len(m.Durations) != 2 {
			t.Errorf("fixture %d: quarter plan not applied", i)
		}
	}
}

func TestGenerateRoundRobinNeedsTwoTeams(t *testing.T) {
	svc, _, _ := newTournamentFixture("Solo")
	ctx := context.Background()

	if _, err := svc.GenerateRoundRobin(ctx, 1, "2025-07-12", 1, []int64{600}); !errors.Is(err, ErrNotEnoughTeams) {
		t.Errorf("expected ErrNotEnoughTeams, got %v", err)
	}
}

func TestDeleteMatchRejectsDone(t *testing.T) {
	svc, matchRepo, _ := newTournamentFixture("Leões", "Tubarões")
	ctx := context.Background()

	match := &models.Match{DateISO: "2025-07-12", Mode: models.ModeTournament, Status: models.MatchStatusDone}
	if err := matchRepo.Create(ctx, nil, match); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteMatch(ctx, match.ID); !errors.Is(err, ErrMatchAlreadyDone) {
		t.Errorf("expected ErrMatchAlreadyDone, got %v", err)
	}
}
