package users

import (
	"context"

	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/rs/zerolog/log"
)

// UsersRepository defines what the app layer needs from the repository
type UsersRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// App handles users business logic
type App struct {
	repo UsersRepository
}

// NewApp creates a new users App
func NewApp(repo UsersRepository) *App {
	return &App{
		repo: repo,
	}
}

// Username resolves a display name. Lookup failures and blank names fall back to
// models.UnknownPlayerName; this never fails.
func (a *App) Username(ctx context.Context, id string) string {
	user, err := a.repo.GetUser(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("player_id", id).Msg("username lookup failed, using placeholder")
		return models.UnknownPlayerName
	}
	if user == nil || user.Username == "" {
		return models.UnknownPlayerName
	}
	return user.Username
}

// Usernames resolves display names for every id.
func (a *App) Usernames(ctx context.Context, ids []string) map[string]string {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		out[id] = a.Username(ctx, id)
	}
	return out
}
