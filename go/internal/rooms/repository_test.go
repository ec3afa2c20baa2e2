package rooms

import (
	"context"
	"testing"
	"time"

	"github.com/mcdev12/mafia/go/internal/game"
	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/mcdev12/mafia/go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetRoom(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	repo := NewRepository(mem, time.Second)

	tests := []struct {
		name string
		doc  store.Document
		want models.GameSettings
	}{
		{
			name: "json string settings",
			doc: store.Document{
				store.IDField:  "r1",
				"status":       "waiting",
				"gameSettings": `{"mafiaCount":2,"doctorCount":1,"nightTime":30}`,
			},
			want: models.GameSettings{
				RoleCounts:     models.RoleCounts{MafiaCount: 2, DoctorCount: 1},
				PhaseDurations: models.PhaseDurations{NightTime: 30},
			},
		},
		{
			name: "inline object settings",
			doc: store.Document{
				store.IDField:  "r2",
				"gameSettings": map[string]any{"votingTime": float64(90)},
			},
			want: models.GameSettings{PhaseDurations: models.PhaseDurations{VotingTime: 90}},
		},
		{
			name: "malformed settings",
			doc:  store.Document{store.IDField: "r3", "gameSettings": "{oops"},
			want: models.GameSettings{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := mem.Create(ctx, store.CollectionRooms, tt.doc)
			require.NoError(t, err)

			room, err := repo.GetRoom(ctx, created.ID())
			require.NoError(t, err)
			assert.Equal(t, tt.want, room.Settings)
		})
	}
}

func TestRepository_MarkPlaying(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	repo := NewRepository(mem, time.Second)

	_, err := mem.Create(ctx, store.CollectionRooms, store.Document{store.IDField: "r1", "status": "waiting", "name": "Friday"})
	require.NoError(t, err)

	require.NoError(t, repo.MarkPlaying(ctx, "r1", "g1"))

	room, err := repo.GetRoom(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusPlaying, room.Status)
	assert.Equal(t, "g1", room.GameStateID)

	doc, err := mem.Get(ctx, store.CollectionRooms, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Friday", doc["name"])
}

func TestRepository_NotFound(t *testing.T) {
	repo := NewRepository(store.NewMemory(), time.Second)

	_, err := repo.GetRoom(context.Background(), "missing")
	assert.ErrorIs(t, err, game.ErrNotFound)

	err = repo.MarkPlaying(context.Background(), "missing", "g1")
	assert.ErrorIs(t, err, game.ErrNotFound)
}
