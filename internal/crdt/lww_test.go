package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/docsync/internal/models"
)

func TestResolve(t *testing.T) {
	current := &models.Provenance{
		Stamp: models.Stamp{Origin: "peer-b", Sequence: 10, Timestamp: 500},
	}

	tests := []struct {
		current  *models.Provenance
		name     string
		incoming models.Stamp
		expected Verdict
	}{
		{
			name:     "unknown provenance",
			incoming: models.Stamp{Origin: "peer-a", Sequence: 1},
			current:  nil,
			expected: VerdictApply,
		},
		{
			name:     "zero provenance",
			incoming: models.Stamp{Origin: "peer-a", Sequence: 1},
			current:  &models.Provenance{},
			expected: VerdictApply,
		},
		{
			name:     "higher sequence wins",
			incoming: models.Stamp{Origin: "peer-a", Sequence: 11, Timestamp: 1},
			current:  current,
			expected: VerdictApply,
		},
		{
			name:     "lower sequence loses",
			incoming: models.Stamp{Origin: "peer-z", Sequence: 9, Timestamp: 9999},
			current:  current,
			expected: VerdictStale,
		},
		{
			name:     "same record is a duplicate",
			incoming: models.Stamp{Origin: "peer-b", Sequence: 10, Timestamp: 500},
			current:  current,
			expected: VerdictDuplicate,
		},
		{
			name:     "equal sequence, later timestamp wins",
			incoming: models.Stamp{Origin: "peer-a", Sequence: 10, Timestamp: 501},
			current:  current,
			expected: VerdictApply,
		},
		{
			name:     "equal sequence and timestamp, greater origin wins",
			incoming: models.Stamp{Origin: "peer-c", Sequence: 10, Timestamp: 500},
			current:  current,
			expected: VerdictApply,
		},
		{
			name:     "equal sequence and timestamp, lower origin loses",
			incoming: models.Stamp{Origin: "peer-a", Sequence: 10, Timestamp: 500},
			current:  current,
			expected: VerdictStale,
		},
		{
			name:     "tombstone is overwritten by newer write",
			incoming: models.Stamp{Origin: "peer-a", Sequence: 12},
			current:  &models.Provenance{Stamp: current.Stamp, Deleted: true},
			expected: VerdictApply,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.incoming, tt.current))
		})
	}
}

// Два конфликтующих Update с одинаковым sequence: побеждает один и тот же
// узел независимо от порядка доставки.
func TestResolve_DeterministicTieBreak(t *testing.T) {
	a := models.Stamp{Origin: "peer-a", Sequence: 4, Timestamp: 100}
	b := models.Stamp{Origin: "peer-b", Sequence: 4, Timestamp: 100}

	apply := func(order ...models.Stamp) models.Stamp {
		var state *models.Provenance
		for _, s := range order {
			if Resolve(s, state) == VerdictApply {
				state = &models.Provenance{Stamp: s}
			}
		}
		return state.Stamp
	}

	assert.Equal(t, b, apply(a, b))
	assert.Equal(t, b, apply(b, a))
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "apply", VerdictApply.String())
	assert.Equal(t, "duplicate", VerdictDuplicate.String())
	assert.Equal(t, "stale", VerdictStale.String())
	assert.Equal(t, "unknown", Verdict(99).String())
}
