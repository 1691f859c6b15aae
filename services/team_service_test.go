package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rachao-basket/scoreboard/models"
)

func TestTeamCreateTrimsAndValidatesName(t *testing.T) {
	svc := NewTeamService(&stubTeamRepo{})
	ctx := context.Background()

	team, err := svc.Create(ctx, "  Leões  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if team.Name != "Leões" {
		t.Errorf("expected trimmed name, got %q", team.Name)
	}
	if team.ID == 0 {
		t.Error("expected an assigned id")
	}

	if _, err := svc.Create(ctx, "   "); !errors.Is(err, ErrTeamNameRequired) {
		t.Errorf("expected ErrTeamNameRequired, got %v", err)
	}
}

func TestTeamCreateDuplicateName(t *testing.T) {
	svc := NewTeamService(&stubTeamRepo{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Tubarões"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "Tubarões"); !errors.Is(err, ErrTeamNameConflict) {
		t.Errorf("expected ErrTeamNameConflict, got %v", err)
	}
}

func TestTeamListNeverReturnsNil(t *testing.T) {
	svc := NewTeamService(&stubTeamRepo{})
	ctx := context.Background()

	teams, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if teams == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(teams) != 0 {
		t.Errorf("expected no teams, got %d", len(teams))
	}

	if _, err := svc.Create(ctx, "Leões"); err != nil {
		t.Fatal(err)
	}
	teams, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(teams) != 1 || teams[0].Name != "Leões" {
		t.Errorf("unexpected teams %+v", teams)
	}
}

func TestTeamDelete(t *testing.T) {
	repo := &stubTeamRepo{teams: []*models.Team{{ID: 1, Name: "Leões"}}}
	svc := NewTeamService(repo)
	ctx := context.Background()

	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.teams) != 0 {
		t.Errorf("expected the team to be removed, got %d left", len(repo.teams))
	}

	if err := svc.Delete(ctx, 99); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("expected ErrTeamNotFound, got %v", err)
	}
}
