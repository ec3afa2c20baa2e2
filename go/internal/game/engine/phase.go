package engine

import (
	"fmt"
	"time"

	"github.com/mcdev12/mafia/go/internal/game"
	"github.com/mcdev12/mafia/go/internal/models"
)

// StartNight moves a game out of the Starting phase into its first night.
func StartNight(gs *models.GameState, now time.Time) (*models.GameState, error) {
	if err := requirePhase(gs, models.PhaseStarting); err != nil {
		return nil, err
	}
	next := gs.Clone()
	next.CurrentNight++
	next.NightActions = map[models.ActionKind]models.NightAction{}
	enterPhase(next, models.PhaseNight, now)
	return next, nil
}

// OpenVoting ends the day discussion and opens the ballot.
func OpenVoting(gs *models.GameState, now time.Time) (*models.GameState, error) {
	if err := requirePhase(gs, models.PhaseDay); err != nil {
		return nil, err
	}
	next := gs.Clone()
	next.Votes = map[string]string{}
	enterPhase(next, models.PhaseVoting, now)
	return next, nil
}

// Advance runs the transition that leaves gs.Phase.
func Advance(gs *models.GameState, now time.Time) (*models.GameState, error) {
	switch gs.Phase {
	case models.PhaseStarting:
		return StartNight(gs, now)
	case models.PhaseNight:
		return ResolveNight(gs, now)
	case models.PhaseDay:
		return OpenVoting(gs, now)
	case models.PhaseVoting:
		return ResolveVoting(gs, now)
	}
	return nil, fmt.Errorf("%w: no transition out of %s", game.ErrInvalidPhase, gs.Phase)
}

func requirePhase(gs *models.GameState, want models.Phase) error {
	if gs.Phase != want {
		return fmt.Errorf("%w: game %s is in %s, expected %s", game.ErrInvalidPhase, gs.ID, gs.Phase, want)
	}
	return nil
}

// enterPhase stamps the phase anchor and configured duration.
func enterPhase(gs *models.GameState, phase models.Phase, now time.Time) {
	gs.Phase = phase
	gs.PhaseStartTime = now.UTC()
	gs.PhaseTimeRemaining = gs.Settings.Seconds(phase)
}

// settle evaluates the win condition and enters either the next phase or GameOver.
func settle(gs *models.GameState, nextPhase models.Phase, now time.Time) {
	if w := EvaluateWinner(gs.PlayerRoles, gs.PlayerAlive); w != models.WinnerNone {
		gs.Winner = w
		enterPhase(gs, models.PhaseGameOver, now)
		return
	}
	enterPhase(gs, nextPhase, now)
}

// recordDeaths appends to EliminatedPlayers every candidate that was alive before and
// is dead now, in candidate order.
func recordDeaths(gs *models.GameState, before map[string]bool, candidates []string) {
	seen := make(map[string]bool, len(candidates))
	for _, id := range candidates {
		if seen[id] {
			continue
		}
		seen[id] = true
		if before[id] && !gs.PlayerAlive[id] {
			gs.EliminatedPlayers = append(gs.EliminatedPlayers, id)
		}
	}
}

func isPlayer(gs *models.GameState, id string) bool {
	if id == "" {
		return false
	}
	_, ok := gs.PlayerRoles[id]
	return ok
}

func logEntry(kind models.LogKind, now time.Time, msg string, targets ...string) models.LogEntry {
	return models.LogEntry{Kind: kind, Targets: targets, Message: msg, Timestamp: now.UTC()}
}
