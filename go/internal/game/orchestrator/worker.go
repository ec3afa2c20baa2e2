package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/mcdev12/mafia/go/internal/game"
	"github.com/mcdev12/mafia/go/internal/game/timer"
	"github.com/rs/zerolog/log"
)

// Run consumes phase timer expiries with a pool of workers until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	log.Info().
		Str("instance", o.instanceID).
		Int("workers", o.cfg.Workers).
		Msg("phase controller started")

	var wg sync.WaitGroup
	for i := 0; i < o.cfg.Workers; i++ {
		wg.Add(1)
		go o.worker(ctx, &wg, i)
	}

	<-ctx.Done()
	log.Info().Str("instance", o.instanceID).Msg("shutting down workers")
	wg.Wait()
	log.Info().Str("instance", o.instanceID).Msg("all workers shut down")
	return nil
}

// worker handles phase expiries from the timer service
func (o *Orchestrator) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	log.Debug().
		Str("instance", o.instanceID).
		Int("worker_id", workerID).
		Msg("worker started")

	expired := o.timers.Expired()
	for {
		select {
		case <-ctx.Done():
			log.Debug().
				Str("instance", o.instanceID).
				Int("worker_id", workerID).
				Msg("worker shutting down")
			return
		case exp, ok := <-expired:
			if !ok {
				return
			}

			log.Info().
				Str("game_id", exp.GameID).
				Str("phase", string(exp.Phase)).
				Str("instance", o.instanceID).
				Int("worker_id", workerID).
				Msg("worker handling phase expiry")

			if err := o.handleExpiry(ctx, exp); err != nil {
				log.Error().
					Err(err).
					Str("game_id", exp.GameID).
					Str("instance", o.instanceID).
					Int("worker_id", workerID).
					Msg("phase expiry handling failed")
			}
		}
	}
}

// handleExpiry advances the game out of the phase whose timer fired. An expiry whose
// phase no longer matches the stored game lost a race with an explicit resolution and
// is dropped. A store failure re-arms a short retry timer, up to RetryMaxAttempts.
func (o *Orchestrator) handleExpiry(ctx context.Context, exp timer.Expiry) error {
	unlock := o.locks.lock(exp.GameID)
	defer unlock()

	_, err := o.advanceLocked(ctx, exp.GameID, exp.Phase)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, game.ErrInvalidPhase):
		log.Debug().Err(err).Str("game_id", exp.GameID).Msg("dropping stale phase expiry")
		o.clearRetries(exp.GameID)
		return nil
	case errors.Is(err, game.ErrNotFound):
		log.Warn().Str("game_id", exp.GameID).Msg("phase expiry for unknown game")
		o.clearRetries(exp.GameID)
		return nil
	case errors.Is(err, game.ErrStoreFailure):
		o.scheduleRetry(exp)
		return err
	default:
		o.clearRetries(exp.GameID)
		return err
	}
}

// scheduleRetry re-arms the phase timer after a failed transition. The caller holds the
// game lock. A timer armed since the expiry means the game moved on and wins.
func (o *Orchestrator) scheduleRetry(exp timer.Expiry) {
	if _, ok := o.timers.RemainingSeconds(exp.GameID); ok {
		return
	}

	o.retriesMu.Lock()
	o.retries[exp.GameID]++
	attempt := o.retries[exp.GameID]
	if attempt > o.cfg.RetryMaxAttempts {
		delete(o.retries, exp.GameID)
	}
	o.retriesMu.Unlock()

	if attempt > o.cfg.RetryMaxAttempts {
		log.Error().
			Str("game_id", exp.GameID).
			Str("phase", string(exp.Phase)).
			Int("attempts", attempt-1).
			Msg("giving up on phase transition")
		return
	}

	log.Warn().
		Str("game_id", exp.GameID).
		Str("phase", string(exp.Phase)).
		Int("attempt", attempt).
		Dur("delay", o.cfg.RetryDelay).
		Msg("retrying phase transition")
	o.timers.Start(exp.GameID, o.cfg.RetryDelay, exp.Phase)
}

func (o *Orchestrator) clearRetries(gameID string) {
	o.retriesMu.Lock()
	delete(o.retries, gameID)
	o.retriesMu.Unlock()
}

func (o *Orchestrator) pendingRetries(gameID string) int {
	o.retriesMu.Lock()
	defer o.retriesMu.Unlock()
	return o.retries[gameID]
}
