// Package docsync keeps embedded document stores of several peers in sync over a room.
//
// Every committed local write is captured as a change record and published to the
// room; records from other peers are applied with last-writer-wins resolution.
// Reads never touch the network.
package docsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/iudanet/docsync/internal/auth"
	"github.com/iudanet/docsync/internal/network"
	"github.com/iudanet/docsync/internal/storage"
	"github.com/iudanet/docsync/internal/syncer"
	"github.com/iudanet/docsync/internal/validation"
)

const syncedBuffer = 64

// DB is a synchronized handle over one document store
type DB struct {
	store     storage.Store
	transport network.Transport
	engine    *syncer.Engine
	logger    *slog.Logger
	synced    chan SyncedEvent
	unhook    func()
	channel   *syncer.Channel
	opts      options
	mu        sync.Mutex
	started   bool
	closed    atomic.Bool
}

// Open wraps store and transport. Nothing is sent until Start.
// The DB owns both and releases them on Close.
func Open(ctx context.Context, store storage.Store, transport network.Transport, opts ...Option) (*DB, error) {
	o := buildOptions(opts)
	if o.passphrase != "" {
		if err := validation.ValidatePassphrase(o.passphrase); err != nil {
			return nil, err
		}
	}

	engine, err := syncer.New(ctx, store, transport.LocalPeerID(), o.cfg, o.logger, o.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to open sync engine: %w", err)
	}

	db := &DB{
		store:     store,
		transport: transport,
		engine:    engine,
		logger:    o.logger,
		synced:    make(chan SyncedEvent, syncedBuffer),
		opts:      o,
	}
	db.unhook = engine.Events().OnSynced(func(ev SyncedEvent) {
		select {
		case db.synced <- ev:
		default:
		}
	})

	return db, nil
}

// Start joins the room. Without SyncRequired a transport failure is logged
// and the DB keeps working local-only.
func (db *DB) Start(ctx context.Context, roomID uuid.UUID) error {
	if db.closed.Load() {
		return ErrClosed
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.channel != nil {
		return ErrAlreadyStarted
	}

	if !db.started {
		if err := db.transport.Start(ctx); err != nil {
			return db.degrade(fmt.Errorf("failed to start transport: %w", err))
		}
		db.started = true
	}

	var sealer syncer.Sealer
	if db.opts.passphrase != "" {
		s, err := auth.NewSealer(db.opts.passphrase, roomID)
		if err != nil {
			return fmt.Errorf("failed to derive room key: %w", err)
		}
		sealer = s
	}

	channel, err := db.engine.Start(ctx, db.transport, roomID, sealer)
	if err != nil {
		return db.degrade(err)
	}
	db.channel = channel

	db.logger.Info("Synchronization started", "room", roomID.String(), "peer", db.PeerID())
	return nil
}

func (db *DB) degrade(err error) error {
	if db.opts.cfg.SyncRequired {
		return err
	}
	db.logger.Warn("Sync unavailable, working local-only", "error", err)
	return nil
}

// Close leaves the room, draining the publish queue until ctx expires,
// then stops the transport and closes the store.
func (db *DB) Close(ctx context.Context) error {
	if !db.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.channel != nil {
		if err := db.channel.Close(ctx); err != nil {
			db.logger.Warn("Failed to close sync channel", "error", err)
		}
		db.channel = nil
	}
	if db.started {
		if err := db.transport.Stop(); err != nil {
			db.logger.Warn("Failed to stop transport", "error", err)
		}
	}
	db.unhook()

	if err := db.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}

// PeerID returns the id this DB stamps on its records
func (db *DB) PeerID() string {
	return db.engine.PeerID()
}

// Members returns the peers seen in the room
func (db *DB) Members() []string {
	if ch := db.engine.Channel(); ch != nil {
		return ch.Members()
	}
	return nil
}

// Cursors returns the highest processed sequence per origin peer
func (db *DB) Cursors() map[string]uint64 {
	return db.engine.Cursors()
}

// Synced delivers applied bursts. Events are dropped while the channel is full.
func (db *DB) Synced() <-chan SyncedEvent {
	return db.synced
}

// OnSynced registers fn for applied bursts; call the result to unregister.
// Handlers run on the receive goroutine and must not block.
func (db *DB) OnSynced(fn func(SyncedEvent)) func() {
	return db.engine.Events().OnSynced(fn)
}

// OnPublishFailed registers fn for records given up after retries
func (db *DB) OnPublishFailed(fn func(ChangeRecord)) func() {
	return db.engine.Events().OnPublishFailed(fn)
}

// OnBacklogged registers fn for publish queue overflows
func (db *DB) OnBacklogged(fn func(dropped int)) func() {
	return db.engine.Events().OnBacklogged(fn)
}

// OnConvergenceAnomaly registers fn for remote writes discarded by last-writer-wins
func (db *DB) OnConvergenceAnomaly(fn func(Anomaly)) func() {
	return db.engine.Events().OnConvergenceAnomaly(fn)
}

// Begin starts a transaction. Its mutations are published together on Commit.
// Other writers wait until it ends.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	ltx, err := db.engine.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: ltx}, nil
}

// update runs fn in a single-operation transaction
func (db *DB) update(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Insert stores data under a new store-assigned id
func (db *DB) Insert(ctx context.Context, collection string, data []byte) (string, error) {
	return db.InsertWithID(ctx, collection, "", data)
}

// InsertWithID stores data under id; an empty id is assigned by the store
func (db *DB) InsertWithID(ctx context.Context, collection, id string, data []byte) (string, error) {
	err := db.update(ctx, func(tx *Tx) error {
		var err error
		id, err = tx.InsertWithID(collection, id, data)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update replaces an existing document and reports whether it existed
func (db *DB) Update(ctx context.Context, collection, id string, data []byte) (bool, error) {
	var found bool
	err := db.update(ctx, func(tx *Tx) error {
		var err error
		found, err = tx.Update(collection, id, data)
		return err
	})
	return found, err
}

// Upsert inserts or replaces a document and reports whether it was inserted
func (db *DB) Upsert(ctx context.Context, collection, id string, data []byte) (bool, error) {
	var inserted bool
	err := db.update(ctx, func(tx *Tx) error {
		var err error
		inserted, err = tx.Upsert(collection, id, data)
		return err
	})
	return inserted, err
}

// Delete removes a document and reports whether it existed
func (db *DB) Delete(ctx context.Context, collection, id string) (bool, error) {
	var found bool
	err := db.update(ctx, func(tx *Tx) error {
		var err error
		found, err = tx.Delete(collection, id)
		return err
	})
	return found, err
}

// DeleteMany removes documents by id and returns how many existed
func (db *DB) DeleteMany(ctx context.Context, collection string, ids []string) (int, error) {
	var n int
	err := db.update(ctx, func(tx *Tx) error {
		var err error
		n, err = tx.DeleteMany(collection, ids)
		return err
	})
	return n, err
}

// DeleteWhere removes documents accepted by predicate. Peers receive the resolved id list.
func (db *DB) DeleteWhere(ctx context.Context, collection string, predicate Predicate) (int, error) {
	var n int
	err := db.update(ctx, func(tx *Tx) error {
		var err error
		n, err = tx.DeleteWhere(collection, predicate)
		return err
	})
	return n, err
}

// Get returns a document or ErrNotFound
func (db *DB) Get(ctx context.Context, collection, id string) (Document, error) {
	if db.closed.Load() {
		return Document{}, ErrClosed
	}
	return db.store.Get(ctx, collection, id)
}

// Query returns documents accepted by predicate, ordered by id. nil accepts all.
func (db *DB) Query(ctx context.Context, collection string, predicate Predicate) ([]Document, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	return db.store.Query(ctx, collection, predicate)
}

// Count returns the number of documents accepted by predicate
func (db *DB) Count(ctx context.Context, collection string, predicate Predicate) (int, error) {
	docs, err := db.Query(ctx, collection, predicate)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}
