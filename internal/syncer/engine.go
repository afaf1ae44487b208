// Package syncer replicates local store mutations over a room and applies remote ones.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iudanet/docsync/internal/config"
	"github.com/iudanet/docsync/internal/crdt"
	"github.com/iudanet/docsync/internal/storage"
	"github.com/iudanet/docsync/internal/validation"
)

// Engine owns the replication state of one store handle: the sequence clock,
// the apply cursors and the write lock shared by local and remote writes.
type Engine struct {
	store   storage.Store
	clock   *crdt.SequenceClock
	cursor  *crdt.ApplyCursor
	events  *Events
	metrics *metrics
	logger  *slog.Logger
	now     func() time.Time
	channel *Channel
	cfg     config.Sync
	head    atomic.Uint64 // sequence последней собственной записи в outbox
	writeMu sync.Mutex
	chanMu  sync.RWMutex
}

// New restores the replication state persisted in store.
// A nil registerer keeps metrics private to the engine.
func New(ctx context.Context, store storage.Store, peerID string, cfg config.Sync, logger *slog.Logger, reg prometheus.Registerer) (*Engine, error) {
	if peerID == "" {
		return nil, ErrEmptyPeerID
	}
	if err := validation.ValidatePeerID(peerID); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sync config: %w", err)
	}

	state, err := store.LoadSyncState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync state: %w", err)
	}

	clock := crdt.NewSequenceClock(peerID)
	clock.Restore(state.Sequence)

	cursor := crdt.NewApplyCursor()
	cursor.Load(state.Cursors)

	logger = logger.With("peer", peerID)
	logger.Debug("Sync state restored", "sequence", state.Sequence, "head", state.LastOwn, "origins", len(state.Cursors))

	e := &Engine{
		store:   store,
		clock:   clock,
		cursor:  cursor,
		events:  &Events{},
		metrics: newMetrics(reg),
		logger:  logger,
		now:     time.Now,
		cfg:     cfg,
	}
	e.head.Store(state.LastOwn)
	return e, nil
}

// PeerID returns the origin id stamped on local records
func (e *Engine) PeerID() string {
	return e.clock.PeerID()
}

// Events returns the observer registry
func (e *Engine) Events() *Events {
	return e.events
}

// Sequence returns the local sequence high-water mark
func (e *Engine) Sequence() uint64 {
	return e.clock.Current()
}

// Head returns the sequence of the newest local record, 0 before the first write
func (e *Engine) Head() uint64 {
	return e.head.Load()
}

// Cursors returns a copy of the apply cursors
func (e *Engine) Cursors() map[string]uint64 {
	return e.cursor.Snapshot()
}

// Channel returns the attached room channel or nil when running local-only
func (e *Engine) Channel() *Channel {
	e.chanMu.RLock()
	defer e.chanMu.RUnlock()
	return e.channel
}

func (e *Engine) attach(c *Channel) error {
	e.chanMu.Lock()
	defer e.chanMu.Unlock()
	if e.channel != nil {
		return ErrAlreadyStarted
	}
	e.channel = c
	return nil
}

func (e *Engine) detach(c *Channel) {
	e.chanMu.Lock()
	defer e.chanMu.Unlock()
	if e.channel == c {
		e.channel = nil
	}
}
