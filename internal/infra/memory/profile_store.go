package memory

import (
	"context"
	"sync"
)

// ProfileStore keeps cumulative user points in process memory.
type ProfileStore struct {
	mu     sync.RWMutex
	points map[string]int
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{points: make(map[string]int)}
}

// AddPoints credits a user and returns the new total.
func (s *ProfileStore) AddPoints(_ context.Context, userID string, points int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[userID] += points
	return s.points[userID], nil
}

// Points returns a user's running total; unknown users have zero.
func (s *ProfileStore) Points(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.points[userID], nil
}
