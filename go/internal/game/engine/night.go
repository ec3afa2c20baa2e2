package engine

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/mcdev12/mafia/go/internal/models"
)

// ResolveNight applies the submitted night actions and moves the game to Day, or to
// GameOver when a faction has won. gs is not modified.
//
// Precedence is fixed: mafia kill (blocked by a matching doctor protect), witch save,
// witch kill, detective investigation. A witch save only revives a player who died
// during this resolution. Targets that are not players of this game are ignored.
func ResolveNight(gs *models.GameState, now time.Time) (*models.GameState, error) {
	if err := requirePhase(gs, models.PhaseNight); err != nil {
		return nil, err
	}

	next := gs.Clone()
	before := maps.Clone(next.PlayerAlive)
	var touched []string

	kill := next.NightActions[models.ActionMafiaKill].Target
	protect := next.NightActions[models.ActionDoctorProtect].Target
	witch := next.NightActions[models.ActionWitch]
	investigate := next.NightActions[models.ActionDetectiveInvestigate]

	if isPlayer(next, kill) && next.PlayerAlive[kill] {
		if kill != protect {
			next.PlayerAlive[kill] = false
			touched = append(touched, kill)
			next.GameLog = append(next.GameLog, logEntry(models.LogMafiaKill, now,
				fmt.Sprintf("%s was killed by the Mafia", next.Username(kill)), kill))
		} else {
			next.GameLog = append(next.GameLog, logEntry(models.LogDoctorProtect, now,
				fmt.Sprintf("%s was protected by the Doctor", next.Username(kill)), kill))
		}
	}

	if save := witch.SaveTarget; isPlayer(next, save) && !next.PlayerAlive[save] && before[save] {
		next.PlayerAlive[save] = true
		next.GameLog = append(next.GameLog, logEntry(models.LogWitchSave, now,
			fmt.Sprintf("%s was saved by the Witch", next.Username(save)), save))
	}

	if wk := witch.KillTarget; isPlayer(next, wk) && next.PlayerAlive[wk] {
		next.PlayerAlive[wk] = false
		touched = append(touched, wk)
		next.GameLog = append(next.GameLog, logEntry(models.LogWitchKill, now,
			fmt.Sprintf("%s was killed by the Witch", next.Username(wk)), wk))
	}

	if target := investigate.Target; isPlayer(next, target) {
		if det := investigatingDetective(next, investigate.Actor); det != "" {
			entry := logEntry(models.LogDetectiveInvestigate, now,
				fmt.Sprintf("%s investigated %s and found they are a %s",
					next.Username(det), next.Username(target), next.PlayerRoles[target]), target)
			entry.VisibleTo = det
			next.GameLog = append(next.GameLog, entry)
		}
	}

	recordDeaths(next, before, touched)
	next.NightActions = map[models.ActionKind]models.NightAction{}
	next.CurrentDay++
	settle(next, models.PhaseDay, now)
	return next, nil
}

// investigatingDetective returns the submitting detective if still alive, otherwise the
// first alive detective by id.
func investigatingDetective(gs *models.GameState, actor string) string {
	if gs.PlayerRoles[actor] == models.RoleDetective && gs.PlayerAlive[actor] {
		return actor
	}
	for _, id := range slices.Sorted(maps.Keys(gs.PlayerRoles)) {
		if gs.PlayerRoles[id] == models.RoleDetective && gs.PlayerAlive[id] {
			return id
		}
	}
	return ""
}
