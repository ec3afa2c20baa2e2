package engine

import (
	"fmt"
	"time"

	"github.com/mcdev12/mafia/go/internal/game"
	"github.com/mcdev12/mafia/go/internal/models"
)

// Assignment is the outcome of dealing roles to a set of players.
type Assignment struct {
	PlayerIDs          []string
	Roles              map[string]models.Role
	ExecutionerTargets map[string]string
}

// EffectiveCounts clamps negative counts to zero and forces at least one mafia.
func EffectiveCounts(c models.RoleCounts) models.RoleCounts {
	return models.RoleCounts{
		MafiaCount:       max(1, c.MafiaCount),
		DoctorCount:      max(0, c.DoctorCount),
		DetectiveCount:   max(0, c.DetectiveCount),
		JesterCount:      max(0, c.JesterCount),
		ExecutionerCount: max(0, c.ExecutionerCount),
		WitchCount:       max(0, c.WitchCount),
	}
}

// BuildRolePool returns the unshuffled role multiset for playerCount players:
// mafia first, then doctor, detective, jester, executioner, witch, then villager filler.
func BuildRolePool(playerCount int, counts models.RoleCounts) ([]models.Role, error) {
	if playerCount < game.MinPlayers {
		return nil, fmt.Errorf("%w: need at least %d players, got %d", game.ErrInsufficientPlayers, game.MinPlayers, playerCount)
	}

	c := EffectiveCounts(counts)
	special := c.MafiaCount + c.DoctorCount + c.DetectiveCount + c.JesterCount + c.ExecutionerCount + c.WitchCount
	if special > playerCount {
		return nil, fmt.Errorf("%w: requested %d special roles but only have %d players", game.ErrTooManyRoles, special, playerCount)
	}

	pool := make([]models.Role, 0, playerCount)
	pool = appendRole(pool, models.RoleMafia, c.MafiaCount)
	pool = appendRole(pool, models.RoleDoctor, c.DoctorCount)
	pool = appendRole(pool, models.RoleDetective, c.DetectiveCount)
	pool = appendRole(pool, models.RoleJester, c.JesterCount)
	pool = appendRole(pool, models.RoleExecutioner, c.ExecutionerCount)
	pool = appendRole(pool, models.RoleWitch, c.WitchCount)
	pool = appendRole(pool, models.RoleVillager, playerCount-len(pool))
	return pool, nil
}

func appendRole(pool []models.Role, r models.Role, n int) []models.Role {
	for i := 0; i < n; i++ {
		pool = append(pool, r)
	}
	return pool
}

// AssignRoles deals a shuffled role pool to playerIDs and picks a town target for
// every executioner. Duplicate player ids are collapsed before validation.
func AssignRoles(playerIDs []string, counts models.RoleCounts, s *Shuffler) (Assignment, error) {
	ids := uniqueIDs(playerIDs)

	pool, err := BuildRolePool(len(ids), counts)
	if err != nil {
		return Assignment{}, err
	}
	dealt := s.Roles(pool)

	roles := make(map[string]models.Role, len(ids))
	for i, id := range ids {
		roles[id] = dealt[i]
	}

	targets := make(map[string]string)
	for _, id := range ids {
		if roles[id] != models.RoleExecutioner {
			continue
		}
		var candidates []string
		for _, other := range ids {
			if other != id && roles[other].IsTown() {
				candidates = append(candidates, other)
			}
		}
		if t := s.Pick(candidates); t != "" {
			targets[id] = t
		}
	}

	return Assignment{PlayerIDs: ids, Roles: roles, ExecutionerTargets: targets}, nil
}

// NewGame builds the initial Starting state for an assignment.
func NewGame(roomID string, a Assignment, usernames map[string]string, durations models.PhaseDurations, now time.Time) *models.GameState {
	gs := &models.GameState{
		RoomID:             roomID,
		Phase:              models.PhaseStarting,
		PlayerRoles:        make(map[string]models.Role, len(a.PlayerIDs)),
		PlayerAlive:        make(map[string]bool, len(a.PlayerIDs)),
		PlayerUsernames:    make(map[string]string, len(a.PlayerIDs)),
		ExecutionerTargets: make(map[string]string, len(a.ExecutionerTargets)),
		EliminatedPlayers:  []string{},
		NightActions:       map[models.ActionKind]models.NightAction{},
		Votes:              map[string]string{},
		Settings:           durations,
		GameLog:            []models.LogEntry{},
	}
	for _, id := range a.PlayerIDs {
		gs.PlayerRoles[id] = a.Roles[id]
		gs.PlayerAlive[id] = true
		name := usernames[id]
		if name == "" {
			name = models.UnknownPlayerName
		}
		gs.PlayerUsernames[id] = name
	}
	for k, v := range a.ExecutionerTargets {
		gs.ExecutionerTargets[k] = v
	}
	enterPhase(gs, models.PhaseStarting, now)
	return gs
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
