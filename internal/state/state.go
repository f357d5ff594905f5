// Package state holds small per-instance and per-user scratch values that
// must survive between a summary call and the matching detail call, such as
// the pokemon id a randomizer rolled or the article a news tile showed.
package state

import (
	"fmt"
	"sync"
)

// Store is an in-process scratch map scoped by (namespace, owner id).
type Store struct {
	mu   sync.RWMutex
	vals map[string]string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{vals: make(map[string]string)}
}

func key(scope string, id int64) string {
	return fmt.Sprintf("%s:%d", scope, id)
}

// Put records the value for (scope, id), replacing any previous one.
func (s *Store) Put(scope string, id int64, value string) {
	s.mu.Lock()
	s.vals[key(scope, id)] = value
	s.mu.Unlock()
}

// Get returns the value for (scope, id) and whether it was present.
func (s *Store) Get(scope string, id int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vals[key(scope, id)]
	return v, ok
}
