// Package seen implements the bounded FIFO set of entry identifiers used to
// decide whether an entry is new.
package seen

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// DefaultCapacity is the number of identifiers remembered before the oldest
// ones are evicted.
const DefaultCapacity = 2000

// Set is an insertion-ordered set with fixed capacity. The lookup map always
// holds exactly the ids in order.
type Set struct {
	mu       sync.Mutex
	capacity int
	order    []string
	lookup   map[string]struct{}
}

// New returns an empty set. A non-positive capacity uses DefaultCapacity.
func New(capacity int) *Set {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Set{
		capacity: capacity,
		order:    make([]string, 0, capacity),
		lookup:   make(map[string]struct{}, capacity),
	}
}

// Remember reports whether id was absent, and marks it present. At capacity
// the oldest id is evicted first.
func (s *Set) Remember(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup[id]; ok {
		return false
	}
	if len(s.order) == s.capacity {
		oldest := s.order[0]
		s.order[0] = ""
		s.order = s.order[1:]
		delete(s.lookup, oldest)
	}
	s.order = append(s.order, id)
	s.lookup[id] = struct{}{}
	return true
}

// Contains reports whether id is currently remembered.
func (s *Set) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lookup[id]
	return ok
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *Set) Capacity() int {
	return s.capacity
}

// IDs returns a copy of the remembered ids, oldest first.
func (s *Set) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

type snapshot struct {
	Capacity int      `json:"capacity"`
	IDs      []string `json:"ids"`
}

// Save writes the ids, oldest first, to path as JSON.
func (s *Set) Save(path string) error {
	data, err := json.MarshalIndent(snapshot{Capacity: s.capacity, IDs: s.IDs()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seen set: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write seen set: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace seen set: %w", err)
	}
	return nil
}

// Load replays a snapshot written by Save through Remember, so only the newest
// Capacity ids survive. A missing or empty file leaves the set unchanged.
func (s *Set) Load(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read seen set: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to unmarshal seen set: %w", err)
	}
	for _, id := range snap.IDs {
		if id != "" {
			s.Remember(id)
		}
	}
	return nil
}
