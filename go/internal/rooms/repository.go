package rooms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/mafia/go/internal/game"
	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/mcdev12/mafia/go/internal/store"
)

// Repository implements room data access over the rooms collection
type Repository struct {
	store   store.DocumentStore
	timeout time.Duration
}

// NewRepository creates a new rooms repository
func NewRepository(s store.DocumentStore, timeout time.Duration) *Repository {
	return &Repository{store: s, timeout: timeout}
}

// GetRoom loads a room. An unreadable gameSettings field yields zero settings.
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc, err := r.store.Get(ctx, store.CollectionRooms, id)
	if err != nil {
		return nil, game.StoreError(fmt.Sprintf("get room %s", id), err)
	}

	room := &models.Room{ID: doc.ID()}
	if s, ok := doc["status"].(string); ok {
		room.Status = models.RoomStatus(s)
	}
	if s, ok := doc["gameStateId"].(string); ok {
		room.GameStateID = s
	}
	room.Settings = parseSettings(doc["gameSettings"])
	return room, nil
}

// MarkPlaying flags the room as in progress and links the running game.
func (r *Repository) MarkPlaying(ctx context.Context, id, gameStateID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.store.Update(ctx, store.CollectionRooms, id, store.Document{
		"status":      string(models.RoomStatusPlaying),
		"gameStateId": gameStateID,
	})
	if err != nil {
		return game.StoreError(fmt.Sprintf("mark room %s playing", id), err)
	}
	return nil
}

// parseSettings accepts the JSON-string encoding used by room documents as well as an
// inline object.
func parseSettings(v any) models.GameSettings {
	var raw []byte
	switch x := v.(type) {
	case string:
		raw = []byte(x)
	case map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return models.GameSettings{}
		}
		raw = b
	default:
		return models.GameSettings{}
	}

	var settings models.GameSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return models.GameSettings{}
	}
	return settings
}
