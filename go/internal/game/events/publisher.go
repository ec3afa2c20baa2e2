package events

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Publisher delivers domain events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// LogPublisher writes events to the structured log. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, event Event) error {
	log.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", event.Type).
		Str("game_id", event.GameID).
		RawJSON("payload", event.Payload).
		Msg("game event")
	return nil
}

func (LogPublisher) Close() error { return nil }
