package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types published by the game orchestrator
const (
	TypeGameStarted  = "GameStarted"
	TypePhaseChanged = "PhaseChanged"
	TypeGameOver     = "GameOver"
)

// Event is a domain event ready to publish.
type Event struct {
	ID        uuid.UUID
	Type      string
	GameID    string
	Timestamp time.Time
	Payload   json.RawMessage
}

// NewEvent marshals payload into a new event with a fresh id.
func NewEvent(eventType, gameID string, payload any, now time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		GameID:    gameID,
		Timestamp: now.UTC(),
		Payload:   raw,
	}, nil
}

// envelope is the wire format of a published event.
type envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	GameID    string          `json:"gameId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Marshal renders the event envelope.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(envelope{
		EventID:   e.ID.String(),
		EventType: e.Type,
		GameID:    e.GameID,
		Timestamp: e.Timestamp,
		Payload:   e.Payload,
	})
}

// GameStartedPayload is the payload for a GameStarted event
type GameStartedPayload struct {
	GameID      string    `json:"game_id"`
	RoomID      string    `json:"room_id"`
	PlayerCount int       `json:"player_count"`
	StartedAt   time.Time `json:"started_at"`
	PhaseEndsAt time.Time `json:"phase_ends_at"`
}

// PhaseChangedPayload is the payload for a PhaseChanged event
type PhaseChangedPayload struct {
	GameID       string    `json:"game_id"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	CurrentDay   int       `json:"current_day"`
	CurrentNight int       `json:"current_night"`
	StartedAt    time.Time `json:"started_at"`
	DurationSec  int       `json:"duration_sec"`
	Eliminated   []string  `json:"eliminated,omitempty"`
}

// GameOverPayload is the payload for a GameOver event
type GameOverPayload struct {
	GameID       string    `json:"game_id"`
	Winner       string    `json:"winner"`
	CurrentDay   int       `json:"current_day"`
	CurrentNight int       `json:"current_night"`
	EndedAt      time.Time `json:"ended_at"`
}
