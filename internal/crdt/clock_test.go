package crdt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSequenceClock(t *testing.T) {
	clock := NewSequenceClock("peer-1")

	require.NotNil(t, clock)
	assert.Equal(t, uint64(0), clock.Current(), "Initial counter should be 0")
	assert.Equal(t, "peer-1", clock.PeerID())
}

func TestSequenceClock_Tick(t *testing.T) {
	clock := NewSequenceClock("peer-1")

	tests := []struct {
		name          string
		expectedValue uint64
	}{
		{"First tick", 1},
		{"Second tick", 2},
		{"Third tick", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := clock.Tick()
			assert.Equal(t, tt.expectedValue, result, "Tick should return incremented value")
			assert.Equal(t, tt.expectedValue, clock.Current(), "Counter should be incremented")
		})
	}
}

func TestSequenceClock_Witness(t *testing.T) {
	tests := []struct {
		name     string
		local    uint64
		remote   uint64
		expected uint64
		nextTick uint64
	}{
		{
			name:     "remote greater than local",
			local:    5,
			remote:   10,
			expected: 10,
			nextTick: 11,
		},
		{
			name:     "remote less than local",
			local:    15,
			remote:   10,
			expected: 15,
			nextTick: 16,
		},
		{
			name:     "remote equal to local",
			local:    7,
			remote:   7,
			expected: 7,
			nextTick: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewSequenceClock("peer-1")
			clock.Restore(tt.local)

			assert.Equal(t, tt.expected, clock.Witness(tt.remote))
			// следующая локальная запись выигрывает у всего увиденного
			assert.Equal(t, tt.nextTick, clock.Tick())
		})
	}
}

func TestSequenceClock_Restore_NeverDecreases(t *testing.T) {
	clock := NewSequenceClock("peer-1")
	clock.Restore(100)
	assert.Equal(t, uint64(100), clock.Current())

	clock.Restore(50)
	assert.Equal(t, uint64(100), clock.Current(), "Restore must not move the clock back")
}

func TestSequenceClock_ConcurrentTick(t *testing.T) {
	clock := NewSequenceClock("peer-1")
	iterations := 1000
	goroutines := 10

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[uint64]struct{}, iterations*goroutines)
	)
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				v := clock.Tick()
				mu.Lock()
				seen[v] = struct{}{}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, uint64(goroutines*iterations), clock.Current())
	assert.Len(t, seen, goroutines*iterations, "every tick must be unique")
}
