package timer

import (
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) clockwork.Timer
}

// Expiry is delivered once when a phase timer runs out.
type Expiry struct {
	GameID    string
	Phase     models.Phase
	StartedAt time.Time
}

type entry struct {
	timer     clockwork.Timer
	startedAt time.Time
	duration  time.Duration
	phase     models.Phase
	done      chan struct{}
}

// Service keeps at most one countdown per game. Expiries are delivered on Expired().
type Service struct {
	clock Clock

	mu      sync.Mutex
	active  map[string]*entry
	closed  bool
	expired chan Expiry
	quit    chan struct{}
	wg      sync.WaitGroup
}

// NewService creates a timer service. buffer sizes the expiry channel.
func NewService(clock Clock, buffer int) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		clock:   clock,
		active:  make(map[string]*entry),
		expired: make(chan Expiry, buffer),
		quit:    make(chan struct{}),
	}
}

// Expired returns the channel on which fired timers are delivered.
func (s *Service) Expired() <-chan Expiry {
	return s.expired
}

// Start (re)arms the timer for gameID, superseding any existing one.
func (s *Service) Start(gameID string, d time.Duration, phase models.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if existing, ok := s.active[gameID]; ok {
		existing.cancel()
		log.Debug().Str("game_id", gameID).Str("phase", string(existing.phase)).Msg("replaced existing timer")
	}

	e := &entry{
		timer:     s.clock.NewTimer(d),
		startedAt: s.clock.Now(),
		duration:  d,
		phase:     phase,
		done:      make(chan struct{}),
	}
	s.active[gameID] = e

	s.wg.Add(1)
	go s.wait(gameID, e)

	log.Debug().
		Str("game_id", gameID).
		Str("phase", string(phase)).
		Dur("duration", d).
		Msg("scheduled phase timer")
}

// Stop cancels the timer for gameID. Stopping a game without a timer is a no-op.
func (s *Service) Stop(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.active[gameID]; ok {
		e.cancel()
		delete(s.active, gameID)
		log.Debug().Str("game_id", gameID).Msg("cancelled timer")
	}
}

// Remaining returns max(0, duration-elapsed) for gameID; ok is false if no timer is set.
func (s *Service) Remaining(gameID string) (time.Duration, bool) {
	s.mu.Lock()
	e, ok := s.active[gameID]
	s.mu.Unlock()
	if !ok {
		return 0, false
	}

	rem := e.duration - s.clock.Now().Sub(e.startedAt)
	if rem < 0 {
		rem = 0
	}
	return rem, true
}

// RemainingSeconds is Remaining rounded up to whole seconds.
func (s *Service) RemainingSeconds(gameID string) (int, bool) {
	rem, ok := s.Remaining(gameID)
	if !ok {
		return 0, false
	}
	return int(math.Ceil(rem.Seconds())), true
}

// Active reports how many timers are outstanding.
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Close cancels every timer and waits for waiter goroutines to exit.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for gameID, e := range s.active {
		e.cancel()
		log.Debug().Str("game_id", gameID).Msg("cancelled timer on shutdown")
	}
	s.active = make(map[string]*entry)
	close(s.quit)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Service) wait(gameID string, e *entry) {
	defer s.wg.Done()

	select {
	case <-e.timer.Chan():
	case <-e.done:
		return
	}

	// A Stop or Start that won the lock after the fire supersedes this entry.
	s.mu.Lock()
	if s.active[gameID] != e {
		s.mu.Unlock()
		return
	}
	delete(s.active, gameID)
	s.mu.Unlock()

	select {
	case s.expired <- Expiry{GameID: gameID, Phase: e.phase, StartedAt: e.startedAt}:
		log.Debug().Str("game_id", gameID).Str("phase", string(e.phase)).Msg("timer fired")
	case <-s.quit:
	}
}

func (e *entry) cancel() {
	stopAndDrainTimer(e.timer)
	close(e.done)
}

// stopAndDrainTimer stops a timer and drains its channel if it already fired.
func stopAndDrainTimer(t clockwork.Timer) {
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
}
