package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process DocumentStore for development and tests.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]Document
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]Document)}
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, notFound(collection, id)
	}
	return doc.Clone(), nil
}

func (m *Memory) Create(ctx context.Context, collection string, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := doc.Clone()
	if stored.ID() == "" {
		stored[IDField] = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]Document)
	}
	m.docs[collection][stored.ID()] = stored
	return stored.Clone(), nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, patch Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, notFound(collection, id)
	}
	merged := doc.Clone()
	for k, v := range patch {
		if k == IDField {
			continue
		}
		merged[k] = v
	}
	m.docs[collection][id] = merged
	return merged.Clone(), nil
}
