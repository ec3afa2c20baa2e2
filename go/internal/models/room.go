package models

// RoomStatus defines the lifecycle status of a room.
type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "waiting"
	RoomStatusPlaying RoomStatus = "playing"
)

// GameSettings is the room-level game configuration, stored as a JSON string on the
// room document.
type GameSettings struct {
	RoleCounts
	PhaseDurations
}

// Room is the subset of a room document the game engine reads.
type Room struct {
	ID          string       `json:"id"`
	Status      RoomStatus   `json:"status"`
	GameStateID string       `json:"gameStateId,omitempty"`
	Settings    GameSettings `json:"gameSettings"`
}
