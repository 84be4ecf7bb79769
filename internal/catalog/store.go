// Package catalog holds the in-memory drug collection and its query rules.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"

	"drugdex/m/domain"
)

var (
	// ErrNotFound is returned when an update names an id the store does not hold.
	ErrNotFound = errors.New("drug record not found")
	// ErrDuplicateID is returned by Load when two records share an id.
	ErrDuplicateID = errors.New("duplicate drug id")
	// ErrInvalidID is returned for ids that are neither the sentinel nor positive.
	ErrInvalidID = errors.New("invalid drug id")
)

// Store is an ordered, in-memory collection of drug records. Order is
// insertion order; ids are unique and never change once assigned.
type Store struct {
	mu    sync.RWMutex
	drugs []domain.Drug
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Load replaces the whole collection. Malformed input leaves the store empty.
func (s *Store) Load(drugs []domain.Drug) error {
	seen := make(map[domain.RecordID]struct{}, len(drugs))
	for _, d := range drugs {
		if d.ID <= 0 {
			s.reset()
			return fmt.Errorf("%w: %d", ErrInvalidID, d.ID)
		}
		if _, dup := seen[d.ID]; dup {
			s.reset()
			return fmt.Errorf("%w: %d", ErrDuplicateID, d.ID)
		}
		seen[d.ID] = struct{}{}
	}

	next := make([]domain.Drug, len(drugs))
	copy(next, drugs)

	s.mu.Lock()
	s.drugs = next
	s.mu.Unlock()
	return nil
}

// LoadJSON decodes a JSON array of records and loads it.
func (s *Store) LoadJSON(r io.Reader) error {
	var drugs []domain.Drug
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&drugs); err != nil {
		s.reset()
		return fmt.Errorf("decode drug catalog: %w", err)
	}
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		s.reset()
		return errors.New("decode drug catalog: unexpected data after array")
	}
	return s.Load(drugs)
}

func (s *Store) reset() {
	s.mu.Lock()
	s.drugs = nil
	s.mu.Unlock()
}

// List returns a snapshot of the collection in order.
func (s *Store) List() []domain.Drug {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Drug, len(s.drugs))
	copy(out, s.drugs)
	return out
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drugs)
}

// Get looks a record up by id.
func (s *Store) Get(id domain.RecordID) (domain.Drug, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.drugs[idx], true
	}
	return domain.Drug{}, false
}

// NextID returns the id the next created record would receive.
func (s *Store) NextID() domain.RecordID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID()
}

func (s *Store) nextID() domain.RecordID {
	var highest domain.RecordID
	for _, d := range s.drugs {
		if d.ID > highest {
			highest = d.ID
		}
	}
	return highest + 1
}

// Upsert stores a record. A record carrying domain.NewID is appended with a
// freshly allocated id; any other id replaces the matching record in place.
// An id with no match yields ErrNotFound and nothing is appended.
func (s *Store) Upsert(d domain.Drug) (domain.Drug, error) {
	if d.ID < 0 {
		return domain.Drug{}, fmt.Errorf("%w: %d", ErrInvalidID, d.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID.IsNew() {
		d.ID = s.nextID()
		s.drugs = append(s.drugs, d)
		return d, nil
	}

	idx := s.indexOf(d.ID)
	if idx < 0 {
		return domain.Drug{}, fmt.Errorf("%w: %d", ErrNotFound, d.ID)
	}
	s.drugs[idx] = d
	return d, nil
}

// Remove deletes the record with the given id and reports whether one was
// removed. The unsaved sentinel is never present.
func (s *Store) Remove(id domain.RecordID) bool {
	if id.IsNew() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.drugs = append(s.drugs[:idx], s.drugs[idx+1:]...)
	return true
}

// Random picks one record, or reports false when the store is empty.
func (s *Store) Random(rng *rand.Rand) (domain.Drug, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.drugs) == 0 {
		return domain.Drug{}, false
	}
	return s.drugs[rng.Intn(len(s.drugs))], true
}

func (s *Store) indexOf(id domain.RecordID) int {
	for i, d := range s.drugs {
		if d.ID == id {
			return i
		}
	}
	return -1
}
