package engine

import (
	"strings"
	"time"

	"github.com/mcdev12/mafia/go/internal/models"
)

var testNow = time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

var testDurations = models.PhaseDurations{
	SelectionTime:  15,
	NightTime:      45,
	DiscussionTime: 120,
	VotingTime:     60,
}

// newTestGame builds a state in phase with every player alive and a username equal to
// the capitalized id.
func newTestGame(phase models.Phase, roles map[string]models.Role) *models.GameState {
	gs := &models.GameState{
		ID:                 "game-1",
		RoomID:             "room-1",
		Phase:              phase,
		PlayerRoles:        map[string]models.Role{},
		PlayerAlive:        map[string]bool{},
		PlayerUsernames:    map[string]string{},
		ExecutionerTargets: map[string]string{},
		EliminatedPlayers:  []string{},
		NightActions:       map[models.ActionKind]models.NightAction{},
		Votes:              map[string]string{},
		Settings:           testDurations,
		GameLog:            []models.LogEntry{},
	}
	for id, role := range roles {
		gs.PlayerRoles[id] = role
		gs.PlayerAlive[id] = true
		gs.PlayerUsernames[id] = strings.ToUpper(id[:1]) + id[1:]
	}
	return gs
}

func aliveCount(gs *models.GameState) int {
	n := 0
	for _, alive := range gs.PlayerAlive {
		if alive {
			n++
		}
	}
	return n
}

func logKinds(entries []models.LogEntry) []models.LogKind {
	out := make([]models.LogKind, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Kind)
	}
	return out
}
