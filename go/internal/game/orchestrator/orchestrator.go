package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/mafia/go/internal/game/engine"
	"github.com/mcdev12/mafia/go/internal/game/events"
	"github.com/mcdev12/mafia/go/internal/game/repository"
	"github.com/mcdev12/mafia/go/internal/game/timer"
	"github.com/mcdev12/mafia/go/internal/models"
)

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
}

// GameRepository defines what the orchestrator needs from game state persistence
type GameRepository interface {
	Get(ctx context.Context, id string) (*models.GameState, error)
	Create(ctx context.Context, gs *models.GameState) (string, error)
	Update(ctx context.Context, gs *models.GameState, fields ...repository.Field) error
}

// RoomRepository defines what the orchestrator needs from rooms
type RoomRepository interface {
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	MarkPlaying(ctx context.Context, id, gameStateID string) error
}

// UsernameResolver defines what the orchestrator needs from the users app
type UsernameResolver interface {
	Usernames(ctx context.Context, ids []string) map[string]string
}

// PhaseTimers defines what the orchestrator needs from the timer subsystem
type PhaseTimers interface {
	Start(gameID string, d time.Duration, phase models.Phase)
	Stop(gameID string)
	RemainingSeconds(gameID string) (int, bool)
	Expired() <-chan timer.Expiry
}

// Config tunes the orchestrator.
type Config struct {
	// Durations are the defaults; room settings override any positive field.
	Durations models.PhaseDurations
	// Workers is the number of goroutines consuming timer expiries.
	Workers int
	// RetryMaxAttempts bounds how often a timer transition that hit a store failure
	// is re-armed.
	RetryMaxAttempts int
	// RetryDelay is the wait before a failed timer transition is retried.
	RetryDelay time.Duration
}

// DefaultConfig mirrors the classic party-game pacing.
func DefaultConfig() Config {
	return Config{
		Durations: models.PhaseDurations{
			SelectionTime:  15,
			NightTime:      45,
			DiscussionTime: 120,
			VotingTime:     60,
		},
		Workers:          10,
		RetryMaxAttempts: 3,
		RetryDelay:       5 * time.Second,
	}
}

// Orchestrator is the phase controller. It serializes transitions per game, persists
// each transition before arming the next phase timer, and consumes timer expiries.
type Orchestrator struct {
	games     GameRepository
	rooms     RoomRepository
	users     UsernameResolver
	timers    PhaseTimers
	publisher events.Publisher
	shuffler  *engine.Shuffler
	clock     Clock
	cfg       Config

	instanceID string
	locks      *gameLocks

	retries   map[string]int
	retriesMu sync.Mutex
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithShuffler overrides the role shuffler.
func WithShuffler(s *engine.Shuffler) Option {
	return func(o *Orchestrator) { o.shuffler = s }
}

// NewOrchestrator creates a new game orchestrator
func NewOrchestrator(
	games GameRepository,
	rooms RoomRepository,
	users UsernameResolver,
	timers PhaseTimers,
	publisher events.Publisher,
	cfg Config,
	opts ...Option,
) *Orchestrator {
	def := DefaultConfig()
	cfg.Durations = def.Durations.Overlay(cfg.Durations)
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.RetryMaxAttempts < 0 {
		cfg.RetryMaxAttempts = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	if publisher == nil {
		publisher = events.LogPublisher{}
	}

	o := &Orchestrator{
		games:      games,
		rooms:      rooms,
		users:      users,
		timers:     timers,
		publisher:  publisher,
		shuffler:   engine.NewShuffler(),
		clock:      clockwork.NewRealClock(),
		cfg:        cfg,
		instanceID: uuid.New().String()[:8], // short ID for logging
		locks:      newGameLocks(),
		retries:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
