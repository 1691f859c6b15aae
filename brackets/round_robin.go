package brackets

import (
	"fmt"

	"github.com/rachao-basket/scoreboard/models"
)

// Pairing is one generated fixture between two check-in teams.
type Pairing struct {
	Order int
	TeamA *models.Team
	TeamB *models.Team
}

// GenerateRoundRobin pairs every team against every other team once, in a
// stable order. n teams produce n*(n-1)/2 fixtures.
func GenerateRoundRobin(teams []*models.Team) ([]Pairing, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("round robin: not enough teams (found %d, min 2 required)", len(teams))
	}

	pairings := make([]Pairing, 0, len(teams)*(len(teams)-1)/2)
	order := 0
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			order++
			pairings = append(pairings, Pairing{
				Order: order,
				TeamA: teams[i],
				TeamB: teams[j],
			})
		}
	}
	return pairings, nil
}
