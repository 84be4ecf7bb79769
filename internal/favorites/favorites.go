// Package favorites tracks the ids a user has starred. The set is independent
// of the catalog: removing a drug does not remove it from favorites.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"drugdex/m/domain"
)

// Key is the preference slot the set is persisted under.
const Key = "favDrugs"

// Slot is a single named key-value store entry.
type Slot interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Set is an ordered set of record ids, in the order they were added.
type Set struct {
	mu  sync.RWMutex
	ids []domain.RecordID
}

// NewSet builds a set from ids, dropping duplicates.
func NewSet(ids ...domain.RecordID) *Set {
	s := &Set{}
	for _, id := range ids {
		if !s.contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Toggle adds id if absent and removes it otherwise. It returns the new
// membership.
func (s *Set) Toggle(id domain.RecordID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggle(id)
}

// ToggleAndSave flips id and writes the set to slot while holding the lock.
// If the write fails the flip is undone and the old membership is returned.
func (s *Set) ToggleAndSave(ctx context.Context, slot Slot, id domain.RecordID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := make([]domain.RecordID, len(s.ids))
	copy(prev, s.ids)
	fav := s.toggle(id)
	if err := write(ctx, slot, s.ids); err != nil {
		s.ids = prev
		return !fav, err
	}
	return fav, nil
}

func (s *Set) toggle(id domain.RecordID) bool {
	for i, fid := range s.ids {
		if fid == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return false
		}
	}
	s.ids = append(s.ids, id)
	return true
}

// Contains reports membership.
func (s *Set) Contains(id domain.RecordID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contains(id)
}

func (s *Set) contains(id domain.RecordID) bool {
	for _, fid := range s.ids {
		if fid == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the members.
func (s *Set) IDs() []domain.RecordID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RecordID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len reports the number of members.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Load reads the set from slot. A missing or unreadable value yields an
// empty set; only storage errors are returned.
func Load(ctx context.Context, slot Slot) (*Set, error) {
	raw, ok, err := slot.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	if !ok || raw == "" {
		return NewSet(), nil
	}
	var ids []domain.RecordID
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logrus.WithError(err).Warn("discarding malformed favorites")
		return NewSet(), nil
	}
	return NewSet(ids...), nil
}

// Save writes the set to slot as a JSON array of ids.
func (s *Set) Save(ctx context.Context, slot Slot) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return write(ctx, slot, s.ids)
}

func write(ctx context.Context, slot Slot, ids []domain.RecordID) error {
	if ids == nil {
		ids = []domain.RecordID{}
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := slot.Set(ctx, Key, string(payload)); err != nil {
		return fmt.Errorf("write favorites: %w", err)
	}
	return nil
}
