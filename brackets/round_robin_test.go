package brackets

import (
	"testing"

	"github.com/rachao-basket/scoreboard/models"
)

func namedTeams(names ...string) []*models.Team {
	teams := make([]*models.Team, len(names))
	for i, name := range names {
		teams[i] = &models.Team{ID: i + 1, Name: name}
	}
	return teams
}

func TestGenerateRoundRobinPairCount(t *testing.T) {
	cases := []struct {
		teams int
		want  int
	}{
		{2, 1},
		{3, 3},
		{4, 6},
		{5, 10},
	}
	for _, tc := range cases {
		names := make([]string, tc.teams)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		pairings, err := GenerateRoundRobin(namedTeams(names...))
		if err != nil {
			t.Fatalf("%d teams: %v", tc.teams, err)
		}
		if len(pairings) != tc.want {
			t.Errorf("%d teams: expected %d pairings, got %d", tc.teams, tc.want, len(pairings))
		}
	}
}

func TestGenerateRoundRobinEveryPairOnce(t *testing.T) {
	teams := namedTeams("Leões", "Tubarões", "Águias", "Lobos")
	pairings, err := GenerateRoundRobin(teams)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[[2]int]bool)
	for _, p := range pairings {
		if p.TeamA.ID == p.TeamB.ID {
			t.Fatalf("team paired against itself: %+v", p)
		}
		key := [2]int{p.TeamA.ID, p.TeamB.ID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			t.Errorf("pair %v generated twice", key)
		}
		seen[key] = true
	}

	for i, p := range pairings {
		if p.Order != i+1 {
			t.Errorf("expected order %d, got %d", i+1, p.Order)
		}
	}
}

func TestGenerateRoundRobinRejectsTooFewTeams(t *testing.T) {
	if _, err := GenerateRoundRobin(namedTeams("Solo")); err == nil {
		t.Error("expected an error for a single team")
	}
	if _, err := GenerateRoundRobin(nil); err == nil {
		t.Error("expected an error for no teams")
	}
}
