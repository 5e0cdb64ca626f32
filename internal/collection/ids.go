package collection

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for new records.
// existing holds the identifiers currently in the collection.
type IDGenerator interface {
	Next(existing []string) string
}

// SequenceIDs assigns decimal identifiers, one past the highest number it has
// ever seen. A number is never reused, even after the record holding it is deleted.
// Once the sequence reaches math.MaxInt it hands out UUIDs instead of wrapping.
type SequenceIDs struct {
	mu   sync.Mutex
	last int
}

// NewSequenceIDs returns a generator whose first identifier is "1" for an empty collection.
func NewSequenceIDs() *SequenceIDs {
	return &SequenceIDs{}
}

// Next implements IDGenerator.
func (g *SequenceIDs) Next(existing []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	// Reconcile against the data instead of trusting the counter alone.
	for _, id := range existing {
		if n, err := strconv.Atoi(id); err == nil && n > g.last {
			g.last = n
		}
	}
	for {
		if g.last == math.MaxInt {
			return UUIDs{}.Next(existing)
		}
		g.last++
		id := strconv.Itoa(g.last)
		if !slices.Contains(existing, id) {
			return id
		}
	}
}

// UUIDs assigns random version 4 UUIDs.
type UUIDs struct{}

// Next implements IDGenerator.
func (UUIDs) Next(existing []string) string {
	for {
		id := uuid.NewString()
		if !slices.Contains(existing, id) {
			return id
		}
	}
}

// Strategy names accepted by NewIDGenerator.
const (
	StrategySequence = "sequence"
	StrategyUUID     = "uuid"
)

// NewIDGenerator returns the generator for a configured strategy. Empty means sequence.
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case "", StrategySequence:
		return NewSequenceIDs(), nil
	case StrategyUUID:
		return UUIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
