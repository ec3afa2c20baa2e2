package game

import (
	"errors"
	"fmt"

	"github.com/mcdev12/mafia/go/internal/store"
)

var (
	// ErrInsufficientPlayers is returned when fewer than MinPlayers are supplied
	ErrInsufficientPlayers = errors.New("insufficient players")

	// ErrTooManyRoles is returned when the special roles do not fit the player count
	ErrTooManyRoles = errors.New("too many roles")

	// ErrNotFound is returned for an unknown game or room identifier
	ErrNotFound = errors.New("not found")

	// ErrInvalidPhase is returned when a resolution is requested in the wrong phase
	ErrInvalidPhase = errors.New("invalid phase")

	// ErrStoreFailure wraps any persistence error or timeout
	ErrStoreFailure = errors.New("store failure")
)

// MinPlayers is the minimum number of players needed to start a game.
const MinPlayers = 4

// StoreError maps a document store error onto ErrNotFound or ErrStoreFailure.
func StoreError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
}
