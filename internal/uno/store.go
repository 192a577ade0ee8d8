// internal/uno/store.go
package uno

import (
	"sync"

	"github.com/google/uuid"
)

// GameStore holds the in-memory set of live games. Each dealer's state is
// fully independent; the store's lock guards only the map itself.
type GameStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]*Dealer
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*Dealer),
	}
}

func (s *GameStore) AddGame(d *Dealer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[d.ID] = d
}

func (s *GameStore) GetGame(id uuid.UUID) (*Dealer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, exists := s.games[id]
	return d, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}
