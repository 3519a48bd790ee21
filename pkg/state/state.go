// Package state holds per-user transient data: an opaque string bag keyed
// by user id, cleared on request and never persisted.
package state

import (
	"strconv"
	"sync"
)

// Store is safe for concurrent use. Each user only ever touches their own
// bag, so contention is nominal.
type Store struct {
	mu   sync.Mutex
	bags map[string]map[string]string
}

func NewStore() *Store {
	return &Store{bags: make(map[string]map[string]string)}
}

// Get returns the value for key in the user's bag, or "" when absent.
func (s *Store) Get(userID, key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	bag, ok := s.bags[userID]
	if !ok {
		return ""
	}
	return bag[key]
}

// Set stores a value in the user's bag.
func (s *Store) Set(userID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bag, ok := s.bags[userID]
	if !ok {
		bag = make(map[string]string)
		s.bags[userID] = bag
	}
	bag[key] = value
}

// Incr adds delta to an integer-valued key and returns the new value.
// Non-numeric existing values are treated as zero.
func (s *Store) Incr(userID, key string, delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	bag, ok := s.bags[userID]
	if !ok {
		bag = make(map[string]string)
		s.bags[userID] = bag
	}

	current, _ := strconv.Atoi(bag[key])
	current += delta
	bag[key] = strconv.Itoa(current)
	return current
}

// GetInt returns the integer value for key, or zero.
func (s *Store) GetInt(userID, key string) int {
	value, _ := strconv.Atoi(s.Get(userID, key))
	return value
}

// Clear discards the user's entire bag.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bags, userID)
}
