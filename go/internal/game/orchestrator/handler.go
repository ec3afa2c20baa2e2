package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/mcdev12/mafia/go/internal/game"
	"github.com/mcdev12/mafia/go/internal/game/engine"
	"github.com/mcdev12/mafia/go/internal/game/events"
	"github.com/mcdev12/mafia/go/internal/game/repository"
	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// AssignResult is returned when a game starts.
type AssignResult struct {
	GameStateID string                 `json:"gameStateId"`
	PlayerRoles map[string]models.Role `json:"playerRoles"`
}

// AssignRoles deals roles for a room, persists the new game, marks the room as playing
// and starts the Starting phase timer. Durations resolve as defaults, then the room's
// stored settings, then the request settings.
func (o *Orchestrator) AssignRoles(ctx context.Context, roomID string, playerIDs []string, settings models.GameSettings) (*AssignResult, error) {
	assignment, err := engine.AssignRoles(playerIDs, settings.RoleCounts, o.shuffler)
	if err != nil {
		return nil, err
	}

	room, err := o.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	durations := o.cfg.Durations.Overlay(room.Settings.PhaseDurations).Overlay(settings.PhaseDurations)

	usernames := o.users.Usernames(ctx, assignment.PlayerIDs)
	now := o.clock.Now()
	gs := engine.NewGame(roomID, assignment, usernames, durations, now)

	id, err := o.games.Create(ctx, gs)
	if err != nil {
		return nil, err
	}
	gs.ID = id

	if err := o.rooms.MarkPlaying(ctx, roomID, id); err != nil {
		return nil, err
	}

	o.timers.Start(id, durations.For(models.PhaseStarting), models.PhaseStarting)

	log.Info().
		Str("game_id", id).
		Str("room_id", roomID).
		Int("players", len(assignment.PlayerIDs)).
		Str("instance", o.instanceID).
		Msg("game started")

	o.publish(ctx, events.TypeGameStarted, id, events.GameStartedPayload{
		GameID:      id,
		RoomID:      roomID,
		PlayerCount: len(assignment.PlayerIDs),
		StartedAt:   gs.PhaseStartTime,
		PhaseEndsAt: gs.PhaseStartTime.Add(durations.For(models.PhaseStarting)),
	})

	return &AssignResult{GameStateID: id, PlayerRoles: gs.PlayerRoles}, nil
}

// ResolveNight resolves the current night immediately.
func (o *Orchestrator) ResolveNight(ctx context.Context, gameID string) (*models.GameState, error) {
	unlock := o.locks.lock(gameID)
	defer unlock()
	return o.advanceLocked(ctx, gameID, models.PhaseNight)
}

// ResolveVoting resolves the current vote immediately.
func (o *Orchestrator) ResolveVoting(ctx context.Context, gameID string) (*models.GameState, error) {
	unlock := o.locks.lock(gameID)
	defer unlock()
	return o.advanceLocked(ctx, gameID, models.PhaseVoting)
}

// RemainingSeconds reports the seconds left on the game's phase timer, rounded up.
func (o *Orchestrator) RemainingSeconds(gameID string) (int, bool) {
	return o.timers.RemainingSeconds(gameID)
}

// View returns the game as seen by viewer: private log entries addressed to other
// players are removed and roles are hidden until the game is over, except the
// viewer's own.
func (o *Orchestrator) View(ctx context.Context, gameID, viewer string) (*models.GameState, error) {
	gs, err := o.games.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	view := gs.Clone()
	view.GameLog = gs.VisibleLog(viewer)
	view.NightActions = map[models.ActionKind]models.NightAction{}
	if gs.Phase != models.PhaseGameOver {
		view.PlayerRoles = map[string]models.Role{}
		view.ExecutionerTargets = map[string]string{}
		if role, ok := gs.PlayerRoles[viewer]; ok {
			view.PlayerRoles[viewer] = role
			if t, ok := gs.ExecutionerTargets[viewer]; ok {
				view.ExecutionerTargets[viewer] = t
			}
		}
	}
	if rem, ok := o.timers.RemainingSeconds(gameID); ok {
		view.PhaseTimeRemaining = rem
	}
	return view, nil
}

// advanceLocked runs the transition out of expect. The caller holds the game lock.
// Nothing is written and no timer changes unless the persisted update succeeds.
func (o *Orchestrator) advanceLocked(ctx context.Context, gameID string, expect models.Phase) (*models.GameState, error) {
	current, err := o.games.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if current.Phase != expect {
		return nil, fmt.Errorf("%w: game %s is in %s, expected %s", game.ErrInvalidPhase, gameID, current.Phase, expect)
	}
	current.Settings = o.cfg.Durations.Overlay(current.Settings)

	next, err := engine.Advance(current, o.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := o.games.Update(ctx, next, repository.FieldsFor(current.Phase)...); err != nil {
		return nil, err
	}
	o.clearRetries(gameID)

	if next.Phase == models.PhaseGameOver {
		o.timers.Stop(gameID)
	} else {
		o.timers.Start(gameID, next.Settings.For(next.Phase), next.Phase)
	}

	log.Info().
		Str("game_id", gameID).
		Str("from", string(current.Phase)).
		Str("to", string(next.Phase)).
		Int("day", next.CurrentDay).
		Int("night", next.CurrentNight).
		Str("instance", o.instanceID).
		Msg("phase advanced")

	o.publishTransition(ctx, current, next)
	return next, nil
}

func (o *Orchestrator) publishTransition(ctx context.Context, from, to *models.GameState) {
	eliminated := to.EliminatedPlayers[len(from.EliminatedPlayers):]
	o.publish(ctx, events.TypePhaseChanged, to.ID, events.PhaseChangedPayload{
		GameID:       to.ID,
		From:         string(from.Phase),
		To:           string(to.Phase),
		CurrentDay:   to.CurrentDay,
		CurrentNight: to.CurrentNight,
		StartedAt:    to.PhaseStartTime,
		DurationSec:  to.PhaseTimeRemaining,
		Eliminated:   eliminated,
	})

	if to.Phase == models.PhaseGameOver {
		log.Info().Str("game_id", to.ID).Str("winner", string(to.Winner)).Msg("game over")
		o.publish(ctx, events.TypeGameOver, to.ID, events.GameOverPayload{
			GameID:       to.ID,
			Winner:       string(to.Winner),
			CurrentDay:   to.CurrentDay,
			CurrentNight: to.CurrentNight,
			EndedAt:      to.PhaseStartTime,
		})
	}
}

// publish emits an event. Failures are logged; they never fail the transition.
func (o *Orchestrator) publish(ctx context.Context, eventType, gameID string, payload any) {
	ev, err := events.NewEvent(eventType, gameID, payload, o.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("failed to build event")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := o.publisher.Publish(ctx, ev); err != nil {
		log.Error().Err(err).Str("game_id", gameID).Str("event_type", eventType).Msg("failed to publish event")
	}
}
