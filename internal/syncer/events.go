package syncer

import (
	"sort"
	"sync"

	"github.com/iudanet/docsync/internal/models"
)

// SyncedEvent is emitted once per receive burst that applied at least one record
type SyncedEvent struct {
	// Origins lists the peers whose records were applied, sorted
	Origins []string
	Applied int
}

// Anomaly describes a remote write discarded by last-writer-wins
type Anomaly struct {
	Record   models.ChangeRecord
	EntityID string
	Winner   models.Stamp
}

// registry is a set of callbacks of one event type
type registry[T any] struct {
	handlers map[int]func(T)
	next     int
	mu       sync.RWMutex
}

func (r *registry[T]) add(fn func(T)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handlers == nil {
		r.handlers = make(map[int]func(T))
	}
	id := r.next
	r.next++
	r.handlers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.handlers, id)
			r.mu.Unlock()
		})
	}
}

// emit calls every handler in registration order on the caller's goroutine
func (r *registry[T]) emit(v T) {
	r.mu.RLock()
	ids := make([]int, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, r.handlers[id])
	}
	r.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Events is the observer surface of the engine.
// Handlers run synchronously on the goroutine that raised the event and must not block.
type Events struct {
	synced        registry[SyncedEvent]
	publishFailed registry[models.ChangeRecord]
	backlogged    registry[int]
	anomaly       registry[Anomaly]
}

// OnSynced registers fn for applied bursts. The returned func unregisters it.
func (e *Events) OnSynced(fn func(SyncedEvent)) func() { return e.synced.add(fn) }

// OnPublishFailed registers fn for records given up after retry exhaustion
func (e *Events) OnPublishFailed(fn func(models.ChangeRecord)) func() {
	return e.publishFailed.add(fn)
}

// OnBacklogged registers fn for queue overflows; the argument is the number of dropped records
func (e *Events) OnBacklogged(fn func(int)) func() { return e.backlogged.add(fn) }

// OnConvergenceAnomaly registers fn for remote writes discarded by last-writer-wins
func (e *Events) OnConvergenceAnomaly(fn func(Anomaly)) func() { return e.anomaly.add(fn) }
