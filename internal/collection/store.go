// Package collection implements the in-memory record store behind each dashboard page.
package collection

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jaakkos/backoffice/internal/domain"
)

// ErrDuplicateID is returned by Reset when two records share an identifier.
var ErrDuplicateID = errors.New("duplicate record id")

// Record is implemented by every entity a Store can hold.
type Record[T any] interface {
	RecordID() string
	WithID(id string) T
	Toggle(domain.Flag) (T, bool)
}

// ChangeKind describes a successful mutation.
type ChangeKind string

const (
	Created ChangeKind = "created"
	Updated ChangeKind = "updated"
	Deleted ChangeKind = "deleted"
	Toggled ChangeKind = "toggled"
	Reset   ChangeKind = "reset"
)

// Change is published to subscribers after each successful mutation.
// Record is the new value, or the removed value for Deleted. It is zero for Reset.
type Change[T any] struct {
	Kind   ChangeKind
	ID     string
	Field  domain.Flag
	Record T
}

const subscriberBuffer = 64

// Store holds an ordered collection of records.
// Every mutation swaps in a fresh slice, so a slice returned by List never changes.
// Operations on an absent id are no-ops that report false.
type Store[T Record[T]] struct {
	mu      sync.RWMutex
	records []T
	ids     IDGenerator

	subMu   sync.Mutex
	subs    map[int]chan Change[T]
	nextSub int
}

// New returns a store seeded with initial. Records with an empty id get one from ids.
func New[T Record[T]](ids IDGenerator, initial []T) (*Store[T], error) {
	s := &Store[T]{ids: ids, subs: make(map[int]chan Change[T])}
	records, err := s.normalize(initial)
	if err != nil {
		return nil, err
	}
	s.records = records
	return s, nil
}

// List returns the current records in insertion order. Treat it as read-only.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	var zero T
	return zero, false
}

// Create assigns rec a new identifier and appends it.
func (s *Store[T]) Create(rec T) T {
	s.mu.Lock()
	rec = rec.WithID(s.ids.Next(s.idsLocked()))
	next := make([]T, len(s.records), len(s.records)+1)
	copy(next, s.records)
	s.records = append(next, rec)
	s.mu.Unlock()

	s.publish(Change[T]{Kind: Created, ID: rec.RecordID(), Record: rec})
	return rec
}

// Update replaces the record with id by apply(record). The identifier cannot be changed.
func (s *Store[T]) Update(id string, apply func(T) T) (T, bool) {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		var zero T
		return zero, false
	}
	updated := apply(s.records[i]).WithID(id)
	next := slices.Clone(s.records)
	next[i] = updated
	s.records = next
	s.mu.Unlock()

	s.publish(Change[T]{Kind: Updated, ID: id, Record: updated})
	return updated, true
}

// Delete removes the record with id and returns it.
func (s *Store[T]) Delete(id string) (T, bool) {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		var zero T
		return zero, false
	}
	removed := s.records[i]
	next := make([]T, 0, len(s.records)-1)
	next = append(next, s.records[:i]...)
	s.records = append(next, s.records[i+1:]...)
	s.mu.Unlock()

	s.publish(Change[T]{Kind: Deleted, ID: id, Record: removed})
	return removed, true
}

// Toggle flips field on the record with id. It reports false when the id is
// absent or the field is not toggleable for this record type.
func (s *Store[T]) Toggle(id string, field domain.Flag) (T, bool) {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		var zero T
		return zero, false
	}
	flipped, ok := s.records[i].Toggle(field)
	if !ok {
		s.mu.Unlock()
		var zero T
		return zero, false
	}
	next := slices.Clone(s.records)
	next[i] = flipped
	s.records = next
	s.mu.Unlock()

	s.publish(Change[T]{Kind: Toggled, ID: id, Field: field, Record: flipped})
	return flipped, true
}

// Reset replaces the whole collection.
func (s *Store[T]) Reset(records []T) error {
	prepared, err := s.Prepare(records)
	if err != nil {
		return err
	}
	s.Replace(prepared)
	return nil
}

// Prepare checks records for a later Replace: it rejects duplicate ids and
// fills in missing ones. The store is not touched.
func (s *Store[T]) Prepare(records []T) (Prepared[T], error) {
	normalized, err := s.normalize(records)
	if err != nil {
		return Prepared[T]{}, err
	}
	return Prepared[T]{records: normalized}, nil
}

// Replace swaps in records returned by Prepare. It cannot fail.
func (s *Store[T]) Replace(p Prepared[T]) {
	s.mu.Lock()
	s.records = p.records
	s.mu.Unlock()

	s.publish(Change[T]{Kind: Reset})
}

// Prepared is a validated record set produced by Store.Prepare.
type Prepared[T any] struct {
	records []T
}

// Len returns the number of prepared records.
func (p Prepared[T]) Len() int { return len(p.records) }

// Subscribe returns a channel receiving every subsequent change, and a func
// that unsubscribes and closes the channel. A subscriber that falls more than
// a buffer behind misses changes rather than blocking writers.
func (s *Store[T]) Subscribe() (<-chan Change[T], func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Change[T], subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store[T]) publish(c Change[T]) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

func (s *Store[T]) index(id string) int {
	return slices.IndexFunc(s.records, func(r T) bool { return r.RecordID() == id })
}

func (s *Store[T]) idsLocked() []string {
	ids := make([]string, len(s.records))
	for i, r := range s.records {
		ids[i] = r.RecordID()
	}
	return ids
}

// normalize copies records, rejects duplicate ids and fills in missing ones.
func (s *Store[T]) normalize(records []T) ([]T, error) {
	out := make([]T, 0, len(records))
	seen := make(map[string]bool, len(records))
	taken := make([]string, 0, len(records))
	for _, r := range records {
		if id := r.RecordID(); id != "" {
			if seen[id] {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
			}
			seen[id] = true
			taken = append(taken, id)
		}
	}
	for _, r := range records {
		if r.RecordID() == "" {
			id := s.ids.Next(taken)
			taken = append(taken, id)
			r = r.WithID(id)
		}
		out = append(out, r)
	}
	return out, nil
}
