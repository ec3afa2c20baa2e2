package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mcdev12/mafia/go/internal/game"
	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/mcdev12/mafia/go/internal/store"
)

// DefaultTimeout bounds every store call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Repository persists GameState documents in the game_states collection.
type Repository struct {
	store   store.DocumentStore
	timeout time.Duration
}

// NewRepository creates a game state repository. A non-positive timeout uses
// DefaultTimeout.
func NewRepository(s store.DocumentStore, timeout time.Duration) *Repository {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Repository{store: s, timeout: timeout}
}

// Get loads a game state by id.
func (r *Repository) Get(ctx context.Context, id string) (*models.GameState, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc, err := r.store.Get(ctx, store.CollectionGameStates, id)
	if err != nil {
		return nil, game.StoreError(fmt.Sprintf("get game %s", id), err)
	}
	return Decode(doc), nil
}

// Create stores a new game state and returns its id.
func (r *Repository) Create(ctx context.Context, gs *models.GameState) (string, error) {
	doc, err := Encode(gs, AllFields...)
	if err != nil {
		return "", fmt.Errorf("encode game state: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	created, err := r.store.Create(ctx, store.CollectionGameStates, doc)
	if err != nil {
		return "", game.StoreError("create game", err)
	}
	return created.ID(), nil
}

// Update writes only the listed fields of gs.
func (r *Repository) Update(ctx context.Context, gs *models.GameState, fields ...Field) error {
	if len(fields) == 0 {
		return nil
	}
	doc, err := Encode(gs, fields...)
	if err != nil {
		return fmt.Errorf("encode game state: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.store.Update(ctx, store.CollectionGameStates, gs.ID, doc); err != nil {
		return game.StoreError(fmt.Sprintf("update game %s", gs.ID), err)
	}
	return nil
}
