package engine

import "github.com/mcdev12/mafia/go/internal/models"

// EvaluateWinner decides whether a faction has won. Only doctor, detective and villager
// count as town; neutral roles are ignored on both sides.
func EvaluateWinner(roles map[string]models.Role, alive map[string]bool) models.Winner {
	var aliveMafia, aliveTown int
	for id, role := range roles {
		if !alive[id] {
			continue
		}
		switch {
		case role == models.RoleMafia:
			aliveMafia++
		case role.IsTown():
			aliveTown++
		}
	}

	switch {
	case aliveMafia == 0:
		return models.WinnerVillagers
	case aliveMafia >= aliveTown:
		return models.WinnerMafia
	}
	return models.WinnerNone
}
