package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/mcdev12/mafia/go/internal/models"
)

// Shuffle returns a uniformly random permutation of items using rng.
// items is left untouched.
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Shuffler is a goroutine-safe source of permutations and random picks.
type Shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewShuffler creates a shuffler seeded from the current time.
func NewShuffler() *Shuffler {
	return NewSeededShuffler(time.Now().UnixNano())
}

// NewSeededShuffler creates a shuffler with a fixed seed, for reproducible tests.
func NewSeededShuffler(seed int64) *Shuffler {
	return &Shuffler{rng: rand.New(rand.NewSource(seed))}
}

// Roles returns a shuffled copy of roles.
func (s *Shuffler) Roles(roles []models.Role) []models.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Shuffle(roles, s.rng)
}

// Pick returns a uniformly chosen element of ids, or "" when ids is empty.
func (s *Shuffler) Pick(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return ids[s.rng.Intn(len(ids))]
}
