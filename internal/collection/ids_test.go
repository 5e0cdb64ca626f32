package collection

import (
	"math"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceIDs(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty", nil, "1"},
		{"dense", []string{"1", "2", "3"}, "4"},
		{"gap after delete", []string{"1", "3", "5"}, "6"},
		{"non numeric ignored", []string{"abc", "2"}, "3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewSequenceIDs()
			assert.Equal(t, tc.want, g.Next(tc.existing))
		})
	}
}

func TestSequenceIDsNeverGoBackwards(t *testing.T) {
	g := NewSequenceIDs()
	assert.Equal(t, "6", g.Next([]string{"5"}))
	// "6" was deleted; the next one must still move forward.
	assert.Equal(t, "7", g.Next([]string{"5"}))
	assert.Equal(t, "8", g.Next(nil))
}

func TestSequenceIDsAtMaxIntSwitchToUUIDs(t *testing.T) {
	g := NewSequenceIDs()
	top := strconv.Itoa(math.MaxInt)

	id := g.Next([]string{top})
	_, err := uuid.Parse(id)
	require.NoError(t, err, "got %q", id)
	assert.NotContains(t, id, "-9223")

	// Still no wrap on later calls, even once the large id is gone.
	_, err = uuid.Parse(g.Next(nil))
	assert.NoError(t, err)
}

func TestUUIDs(t *testing.T) {
	id := UUIDs{}.Next(nil)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, UUIDs{}.Next([]string{id}))
}

func TestNewIDGenerator(t *testing.T) {
	g, err := NewIDGenerator("")
	require.NoError(t, err)
	assert.IsType(t, &SequenceIDs{}, g)

	g, err = NewIDGenerator(StrategyUUID)
	require.NoError(t, err)
	assert.IsType(t, UUIDs{}, g)

	_, err = NewIDGenerator("count")
	assert.Error(t, err)
}
