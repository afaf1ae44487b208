package crdt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyCursor_Advance(t *testing.T) {
	cursor := NewApplyCursor()

	assert.Equal(t, uint64(0), cursor.Position("peer-a"))
	assert.False(t, cursor.Seen("peer-a", 1))

	assert.True(t, cursor.Advance("peer-a", 1))
	assert.True(t, cursor.Seen("peer-a", 1))
	assert.False(t, cursor.Seen("peer-a", 2))

	// пропуск принимается оптимистично
	assert.True(t, cursor.Advance("peer-a", 5))
	assert.Equal(t, uint64(5), cursor.Position("peer-a"))
	assert.True(t, cursor.Seen("peer-a", 3))

	// курсор никогда не уменьшается
	assert.False(t, cursor.Advance("peer-a", 4))
	assert.False(t, cursor.Advance("peer-a", 5))
	assert.Equal(t, uint64(5), cursor.Position("peer-a"))

	// разные источники независимы
	assert.Equal(t, uint64(0), cursor.Position("peer-b"))
}

func TestApplyCursor_LoadSnapshot(t *testing.T) {
	cursor := NewApplyCursor()
	snapshot := map[string]uint64{"peer-a": 3, "peer-b": 9}
	cursor.Load(snapshot)

	// Load копирует входную карту
	snapshot["peer-a"] = 100
	assert.Equal(t, uint64(3), cursor.Position("peer-a"))

	got := cursor.Snapshot()
	assert.Equal(t, map[string]uint64{"peer-a": 3, "peer-b": 9}, got)

	got["peer-b"] = 0
	assert.Equal(t, uint64(9), cursor.Position("peer-b"))
}

func TestApplyCursor_ConcurrentAdvance(t *testing.T) {
	cursor := NewApplyCursor()
	goroutines := 10

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(base uint64) {
			defer wg.Done()
			for j := uint64(1); j <= 100; j++ {
				cursor.Advance("peer-a", base+j)
			}
		}(uint64(i * 100))
	}
	wg.Wait()

	assert.Equal(t, uint64(1000), cursor.Position("peer-a"))
}
