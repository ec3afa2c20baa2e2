package engine

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/mcdev12/mafia/go/internal/models"
)

// Tally counts votes per target. Blank ballots and votes for anyone who is not an
// alive player are dropped.
func Tally(gs *models.GameState) map[string]int {
	counts := make(map[string]int)
	for _, target := range gs.Votes {
		if isPlayer(gs, target) && gs.PlayerAlive[target] {
			counts[target]++
		}
	}
	return counts
}

// Plurality returns the single target with the strictly highest count. tie is true when
// two or more targets share the highest count.
func Plurality(counts map[string]int) (winner string, tie bool) {
	best := 0
	for _, target := range slices.Sorted(maps.Keys(counts)) {
		switch n := counts[target]; {
		case n > best:
			best, winner, tie = n, target, false
		case n == best:
			tie = true
		}
	}
	if tie {
		return "", true
	}
	return winner, false
}

// ResolveVoting eliminates the plurality target, if any, and moves the game to the next
// Night or to GameOver. gs is not modified.
func ResolveVoting(gs *models.GameState, now time.Time) (*models.GameState, error) {
	if err := requirePhase(gs, models.PhaseVoting); err != nil {
		return nil, err
	}

	next := gs.Clone()
	before := maps.Clone(next.PlayerAlive)

	eliminated, tie := Plurality(Tally(next))
	switch {
	case tie:
		next.GameLog = append(next.GameLog, logEntry(models.LogVoteTie, now,
			"Vote resulted in a tie - no one was eliminated"))
	case eliminated != "":
		next.PlayerAlive[eliminated] = false
		next.GameLog = append(next.GameLog, logEntry(models.LogElimination, now,
			fmt.Sprintf("%s was eliminated by vote", next.Username(eliminated)), eliminated))

		if next.PlayerRoles[eliminated] == models.RoleJester {
			next.GameLog = append(next.GameLog, logEntry(models.LogJesterWin, now,
				"The Jester wins by being eliminated!", eliminated))
		}
		for _, exec := range slices.Sorted(maps.Keys(next.ExecutionerTargets)) {
			if next.ExecutionerTargets[exec] != eliminated || !next.PlayerAlive[exec] {
				continue
			}
			if next.PlayerRoles[exec] != models.RoleExecutioner {
				continue
			}
			next.GameLog = append(next.GameLog, logEntry(models.LogExecutionerWin, now,
				fmt.Sprintf("%s (Executioner) wins!", next.Username(exec)), exec, eliminated))
		}
		recordDeaths(next, before, []string{eliminated})
	}

	next.Votes = map[string]string{}
	next.CurrentNight++
	settle(next, models.PhaseNight, now)
	return next, nil
}
