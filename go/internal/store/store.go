package store

import (
	"context"
	"errors"
	"fmt"
)

// Collections used by the game service.
const (
	CollectionGameStates = "game_states"
	CollectionRooms      = "rooms"
	CollectionUsers      = "users"
)

// IDField is the reserved document key holding the document id.
const IDField = "$id"

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is a schemaless document. Values are JSON-compatible.
type Document map[string]any

// ID returns the document id, or "" if unset.
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// DocumentStore is the persistence contract the game service depends on.
type DocumentStore interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Create stores doc and returns it with its id set. A non-empty IDField in doc is kept.
	Create(ctx context.Context, collection string, doc Document) (Document, error)
	// Update merges patch into the stored document (top-level keys only) and returns the
	// result, or ErrNotFound.
	Update(ctx context.Context, collection, id string, patch Document) (Document, error)
}

func notFound(collection, id string) error {
	return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}
