package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	created, err := m.Create(ctx, CollectionRooms, Document{"status": "waiting", "name": "lobby"})
	require.NoError(t, err)
	id := created.ID()
	require.NotEmpty(t, id)

	got, err := m.Get(ctx, CollectionRooms, id)
	require.NoError(t, err)
	assert.Equal(t, "waiting", got["status"])

	updated, err := m.Update(ctx, CollectionRooms, id, Document{"status": "playing", IDField: "other"})
	require.NoError(t, err)
	assert.Equal(t, "playing", updated["status"])
	assert.Equal(t, "lobby", updated["name"], "untouched keys survive a partial update")
	assert.Equal(t, id, updated.ID())
}

func TestMemory_KeepsProvidedID(t *testing.T) {
	m := NewMemory()
	doc, err := m.Create(context.Background(), CollectionUsers, Document{IDField: "u1", "username": "alice"})
	require.NoError(t, err)
	assert.Equal(t, "u1", doc.ID())
}

func TestMemory_NotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, CollectionGameStates, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Update(ctx, CollectionGameStates, "missing", Document{"phase": "night"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	doc, err := m.Create(ctx, CollectionRooms, Document{"status": "waiting"})
	require.NoError(t, err)

	doc["status"] = "mutated"
	got, err := m.Get(ctx, CollectionRooms, doc.ID())
	require.NoError(t, err)
	assert.Equal(t, "waiting", got["status"])
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().Get(ctx, CollectionRooms, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
