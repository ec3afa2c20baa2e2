package users

import (
	"context"
	"fmt"
	"time"

	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/mcdev12/mafia/go/internal/store"
)

// Repository implements user data access over the users collection
type Repository struct {
	store   store.DocumentStore
	timeout time.Duration
}

// NewRepository creates a new users repository
func NewRepository(s store.DocumentStore, timeout time.Duration) *Repository {
	return &Repository{
		store:   s,
		timeout: timeout,
	}
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc, err := r.store.Get(ctx, store.CollectionUsers, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	username, _ := doc["username"].(string)
	return &models.User{ID: doc.ID(), Username: username}, nil
}
