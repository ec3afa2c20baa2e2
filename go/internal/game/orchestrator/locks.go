package orchestrator

import "sync"

// gameLocks hands out one mutex per game id. Entries are reference counted and removed
// when the last holder or waiter releases, so finished games do not accumulate.
type gameLocks struct {
	mu    sync.Mutex
	locks map[string]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func newGameLocks() *gameLocks {
	return &gameLocks{locks: make(map[string]*gameLock)}
}

// lock blocks until the caller holds the game's mutex and returns the release func.
func (g *gameLocks) lock(gameID string) func() {
	g.mu.Lock()
	l, ok := g.locks[gameID]
	if !ok {
		l = &gameLock{}
		g.locks[gameID] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.locks, gameID)
		}
		g.mu.Unlock()
	}
}

func (g *gameLocks) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
