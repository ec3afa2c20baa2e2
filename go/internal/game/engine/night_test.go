package engine

import (
	"testing"

	"github.com/mcdev12/mafia/go/internal/game"
	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nightRoster() map[string]models.Role {
	return map[string]models.Role{
		"mafia":     models.RoleMafia,
		"doc":       models.RoleDoctor,
		"det":       models.RoleDetective,
		"witch":     models.RoleWitch,
		"villager1": models.RoleVillager,
		"villager2": models.RoleVillager,
		"villager3": models.RoleVillager,
	}
}

func TestResolveNight(t *testing.T) {
	tests := []struct {
		name        string
		actions     map[models.ActionKind]models.NightAction
		deadBefore  []string
		wantDead    []string
		wantKinds   []models.LogKind
		wantElim    []string
		wantMessage string
	}{
		{
			name:      "no actions",
			wantKinds: []models.LogKind{},
			wantElim:  []string{},
		},
		{
			name: "mafia kill resolves",
			actions: map[models.ActionKind]models.NightAction{
				models.ActionMafiaKill: {Actor: "mafia", Target: "villager1"},
			},
			wantDead:    []string{"villager1"},
			wantKinds:   []models.LogKind{models.LogMafiaKill},
			wantElim:    []string{"villager1"},
			wantMessage: "Villager1 was killed by the Mafia",
		},
		{
			name: "doctor blocks kill",
			actions: map[models.ActionKind]models.NightAction{
				models.ActionMafiaKill:     {Actor: "mafia", Target: "villager1"},
				models.ActionDoctorProtect: {Actor: "doc", Target: "villager1"},
			},
			wantKinds:   []models.LogKind{models.LogDoctorProtect},
			wantElim:    []string{},
			wantMessage: "Villager1 was protected by the Doctor",
		},
		{
			name: "doctor protects someone else",
			actions: map[models.ActionKind]models.NightAction{
				models.ActionMafiaKill:     {Actor: "mafia", Target: "villager1"},
				models.ActionDoctorProtect: {Actor: "doc", Target: "villager2"},
			},
			wantDead:  []string{"villager1"},
			wantKinds: []models.LogKind{models.LogMafiaKill},
			wantElim:  []string{"villager1"},
		},
		{
			name: "witch save undoes this night's kill",
			actions: map[models.ActionKind]models.NightAction{
				models.ActionMafiaKill: {Actor: "mafia", Target: "villager1"},
				models.ActionWitch:     {Actor: "witch", SaveTarget: "villager1"},
			},
			wantKinds:   []models.LogKind{models.LogMafiaKill, models.LogWitchSave},
			wantElim:    []string{},
			wantMessage: "Villager1 was saved by the Witch",
		},
		{
			name: "witch save cannot revive an earlier death",
			actions: map[models.ActionKind]models.NightAction{
				models.ActionWitch: {Actor: "witch", SaveTarget: "villager3"},
			},
			deadBefore: []string{"villager3"},
			wantDead:   []string{"villager3"},
			wantKinds:  []models.LogKind{},
			wantElim:   []string{},
		},
		{
			name: "witch kill on alive player",
			actions: map[models.ActionKind]models.NightAction{
				models.ActionWitch: {Actor: "witch", KillTarget: "villager2"},
			},
			wantDead:    []string{"villager2"},
			wantKinds:   []models.LogKind{models.LogWitchKill},
			wantElim:    []string{"villager2"},
			wantMessage: "Villager2 was killed by the Witch",
		},
		{
			name: "witch kill after mafia kill on same target is a no-op",
			actions: map[models.ActionKind]models.NightAction{
				models.ActionMafiaKill: {Actor: "mafia", Target: "villager2"},
				models.ActionWitch:     {Actor: "witch", KillTarget: "villager2"},
			},
			wantDead:  []string{"villager2"},
			wantKinds: []models.LogKind{models.LogMafiaKill},
			wantElim:  []string{"villager2"},
		},
		{
			name: "mafia and witch kill different players",
			actions: map[models.ActionKind]models.NightAction{
				models.ActionMafiaKill: {Actor: "mafia", Target: "villager1"},
				models.ActionWitch:     {Actor: "witch", KillTarget: "doc"},
			},
			wantDead:  []string{"villager1", "doc"},
			wantKinds: []models.LogKind{models.LogMafiaKill, models.LogWitchKill},
			wantElim:  []string{"villager1", "doc"},
		},
		{
			name: "unknown targets are ignored",
			actions: map[models.ActionKind]models.NightAction{
				models.ActionMafiaKill:            {Actor: "mafia", Target: "ghost"},
				models.ActionWitch:                {Actor: "witch", SaveTarget: "ghost", KillTarget: "ghost"},
				models.ActionDetectiveInvestigate: {Actor: "det", Target: "ghost"},
			},
			wantKinds: []models.LogKind{},
			wantElim:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := newTestGame(models.PhaseNight, nightRoster())
			gs.CurrentNight = 1
			for _, id := range tt.deadBefore {
				gs.PlayerAlive[id] = false
			}
			if tt.actions != nil {
				gs.NightActions = tt.actions
			}

			next, err := ResolveNight(gs, testNow)
			require.NoError(t, err)

			for id, alive := range next.PlayerAlive {
				assert.Equal(t, !contains(tt.wantDead, id), alive, "liveness of %s", id)
			}
			assert.Equal(t, tt.wantKinds, logKinds(next.GameLog))
			assert.Equal(t, tt.wantElim, next.EliminatedPlayers)
			if tt.wantMessage != "" {
				require.NotEmpty(t, next.GameLog)
				assert.Equal(t, tt.wantMessage, next.GameLog[len(next.GameLog)-1].Message)
			}

			assert.Empty(t, next.NightActions)
			assert.Equal(t, 1, next.CurrentDay)
			assert.Equal(t, models.PhaseDay, next.Phase)
			assert.Equal(t, testDurations.DiscussionTime, next.PhaseTimeRemaining)
		})
	}
}

func TestResolveNight_DoesNotMutateInput(t *testing.T) {
	gs := newTestGame(models.PhaseNight, nightRoster())
	gs.NightActions[models.ActionMafiaKill] = models.NightAction{Target: "villager1"}

	_, err := ResolveNight(gs, testNow)
	require.NoError(t, err)

	assert.True(t, gs.PlayerAlive["villager1"])
	assert.Len(t, gs.NightActions, 1)
	assert.Empty(t, gs.GameLog)
}

func TestResolveNight_DoctorBlockKeepsAliveCount(t *testing.T) {
	for target := range nightRoster() {
		gs := newTestGame(models.PhaseNight, nightRoster())
		gs.NightActions[models.ActionMafiaKill] = models.NightAction{Actor: "mafia", Target: target}
		gs.NightActions[models.ActionDoctorProtect] = models.NightAction{Actor: "doc", Target: target}

		next, err := ResolveNight(gs, testNow)
		require.NoError(t, err)
		assert.Equal(t, aliveCount(gs), aliveCount(next), "protecting %s", target)
	}
}

func TestResolveNight_DetectiveEntryIsPrivate(t *testing.T) {
	gs := newTestGame(models.PhaseNight, nightRoster())
	gs.NightActions[models.ActionDetectiveInvestigate] = models.NightAction{Actor: "det", Target: "mafia"}

	next, err := ResolveNight(gs, testNow)
	require.NoError(t, err)
	require.Len(t, next.GameLog, 1)

	entry := next.GameLog[0]
	assert.Equal(t, models.LogDetectiveInvestigate, entry.Kind)
	assert.Equal(t, "det", entry.VisibleTo)
	assert.Equal(t, "Det investigated Mafia and found they are a mafia", entry.Message)

	assert.Len(t, next.VisibleLog("det"), 1)
	for id := range next.PlayerRoles {
		if id == "det" {
			continue
		}
		assert.Empty(t, next.VisibleLog(id), "entry leaked to %s", id)
	}
	assert.Empty(t, next.VisibleLog(""))
}

func TestResolveNight_DetectiveKilledFallsBackToAliveDetective(t *testing.T) {
	roster := nightRoster()
	roster["det2"] = models.RoleDetective
	gs := newTestGame(models.PhaseNight, roster)
	gs.NightActions[models.ActionMafiaKill] = models.NightAction{Actor: "mafia", Target: "det"}
	gs.NightActions[models.ActionDetectiveInvestigate] = models.NightAction{Actor: "det", Target: "witch"}

	next, err := ResolveNight(gs, testNow)
	require.NoError(t, err)
	require.Len(t, next.GameLog, 2)
	assert.Equal(t, "det2", next.GameLog[1].VisibleTo)
}

func TestResolveNight_NoAliveDetective(t *testing.T) {
	gs := newTestGame(models.PhaseNight, nightRoster())
	gs.PlayerAlive["det"] = false
	gs.NightActions[models.ActionDetectiveInvestigate] = models.NightAction{Actor: "det", Target: "mafia"}

	next, err := ResolveNight(gs, testNow)
	require.NoError(t, err)
	assert.Empty(t, next.GameLog)
}

func TestResolveNight_MafiaWins(t *testing.T) {
	gs := newTestGame(models.PhaseNight, map[string]models.Role{
		"m1": models.RoleMafia,
		"v1": models.RoleVillager,
		"v2": models.RoleVillager,
		"j":  models.RoleJester,
	})
	gs.NightActions[models.ActionMafiaKill] = models.NightAction{Actor: "m1", Target: "v1"}

	next, err := ResolveNight(gs, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseGameOver, next.Phase)
	assert.Equal(t, models.WinnerMafia, next.Winner)
	assert.Equal(t, 0, next.PhaseTimeRemaining)
	assert.Equal(t, 1, next.CurrentDay)
}

func TestResolveNight_WrongPhase(t *testing.T) {
	for _, phase := range []models.Phase{models.PhaseStarting, models.PhaseDay, models.PhaseVoting, models.PhaseGameOver} {
		_, err := ResolveNight(newTestGame(phase, nightRoster()), testNow)
		assert.ErrorIs(t, err, game.ErrInvalidPhase, "phase %s", phase)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
