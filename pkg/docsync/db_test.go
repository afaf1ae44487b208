package docsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/network"
	"github.com/iudanet/docsync/internal/network/memory"
	"github.com/iudanet/docsync/internal/storage"
	"github.com/iudanet/docsync/internal/storage/boltdb"
	"github.com/iudanet/docsync/internal/storage/sqlite"
)

func testOptions() []Option {
	cfg := DefaultSyncConfig()
	cfg.InitialBackoff = 5 * time.Millisecond
	cfg.MaxBackoff = 20 * time.Millisecond
	cfg.MaxAttempts = 100
	return []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithConfig(cfg),
	}
}

func openBolt(t *testing.T, transport network.Transport, opts ...Option) *DB {
	t.Helper()
	st, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "docsync.db"))
	require.NoError(t, err)
	return openWith(t, st, transport, opts...)
}

func openSQLite(t *testing.T, transport network.Transport, opts ...Option) *DB {
	t.Helper()
	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "docsync.sqlite"))
	require.NoError(t, err)
	return openWith(t, st, transport, opts...)
}

func openWith(t *testing.T, st storage.Store, transport network.Transport, opts ...Option) *DB {
	t.Helper()
	db, err := Open(context.Background(), st, transport, append(testOptions(), opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = db.Close(ctx)
	})
	return db
}

func newHub(t *testing.T) *memory.Hub {
	t.Helper()
	hub := memory.NewHub(nil)
	t.Cleanup(hub.Close)
	return hub
}

func waitSynced(t *testing.T, db *DB) SyncedEvent {
	t.Helper()
	select {
	case ev := <-db.Synced():
		return ev
	case <-time.After(3 * time.Second):
		require.FailNow(t, "no sync event")
		return SyncedEvent{}
	}
}

func waitRoom(t *testing.T, dbs ...*DB) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, db := range dbs {
			if len(db.Members()) < len(dbs)-1 {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
}

func TestDB_LocalOnly(t *testing.T) {
	ctx := context.Background()
	db := openBolt(t, newHub(t).Join("a"))

	id, err := db.Insert(ctx, "notes", []byte(`{"title":"first"}`))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = db.InsertWithID(ctx, "notes", id, []byte(`{}`))
	assert.ErrorIs(t, err, ErrDuplicateID)

	found, err := db.Update(ctx, "notes", id, []byte(`{"title":"second"}`))
	require.NoError(t, err)
	assert.True(t, found)

	inserted, err := db.Upsert(ctx, "notes", "n2", []byte(`{"title":"other"}`))
	require.NoError(t, err)
	assert.True(t, inserted)

	doc, err := db.Get(ctx, "notes", id)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"second"}`, string(doc.Data))

	n, err := db.Count(ctx, "notes", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = db.DeleteWhere(ctx, "notes", func(d Document) bool { return d.ID == "n2" })
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	found, err = db.Delete(ctx, "notes", id)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = db.Get(ctx, "notes", id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, db.Members())
}

func TestDB_InsertIDReplicates(t *testing.T) {
	ctx := context.Background()
	hub := newHub(t)
	room := uuid.New()

	a := openBolt(t, hub.Join("a"))
	b := openSQLite(t, hub.Join("b"))
	require.NoError(t, a.Start(ctx, room))
	require.NoError(t, b.Start(ctx, room))
	waitRoom(t, a, b)

	id, err := a.Insert(ctx, "notes", []byte(`{"title":"hello"}`))
	require.NoError(t, err)

	ev := waitSynced(t, b)
	assert.Equal(t, 1, ev.Applied)

	doc, err := b.Get(ctx, "notes", id)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"hello"}`, string(doc.Data))

	_, err = b.Update(ctx, "notes", id, []byte(`{"title":"edited"}`))
	require.NoError(t, err)
	waitSynced(t, a)

	doc, err = a.Get(ctx, "notes", id)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"edited"}`, string(doc.Data))
	assert.Equal(t, uint64(1), a.Cursors()["b"])
}

func TestDB_DefaultCollectionReplicates(t *testing.T) {
	ctx := context.Background()
	hub := newHub(t)
	room := uuid.New()

	a := openBolt(t, hub.Join("a"))
	b := openSQLite(t, hub.Join("b"))
	require.NoError(t, a.Start(ctx, room))
	require.NoError(t, b.Start(ctx, room))
	waitRoom(t, a, b)

	id, err := a.Insert(ctx, "", []byte(`{"title":"untitled"}`))
	require.NoError(t, err)

	ev := waitSynced(t, b)
	assert.Equal(t, 1, ev.Applied)

	doc, err := b.Get(ctx, "", id)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"untitled"}`, string(doc.Data))

	_, err = b.Delete(ctx, "", id)
	require.NoError(t, err)
	waitSynced(t, a)

	_, err = a.Get(ctx, "", id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDB_Passphrase(t *testing.T) {
	ctx := context.Background()
	hub := newHub(t)
	room := uuid.New()

	a := openBolt(t, hub.Join("a"), WithPassphrase("correct horse"))
	b := openBolt(t, hub.Join("b"), WithPassphrase("correct horse"))
	c := openBolt(t, hub.Join("c"), WithPassphrase("battery staple"))
	require.NoError(t, a.Start(ctx, room))
	require.NoError(t, b.Start(ctx, room))
	require.NoError(t, c.Start(ctx, room))
	waitRoom(t, a, b)

	id, err := a.Insert(ctx, "notes", []byte(`{"title":"sealed"}`))
	require.NoError(t, err)
	waitSynced(t, b)

	doc, err := b.Get(ctx, "notes", id)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"sealed"}`, string(doc.Data))

	_, err = c.Get(ctx, "notes", id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, c.Members())
}

func TestOpen_ShortPassphrase(t *testing.T) {
	st, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "docsync.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = Open(context.Background(), st, newHub(t).Join("a"), WithPassphrase("short"))
	assert.Error(t, err)
}

func TestDB_TxPublishesOneBatch(t *testing.T) {
	ctx := context.Background()
	hub := newHub(t)
	room := uuid.New()

	a := openBolt(t, hub.Join("a"))
	b := openBolt(t, hub.Join("b"))
	require.NoError(t, a.Start(ctx, room))
	require.NoError(t, b.Start(ctx, room))
	waitRoom(t, a, b)

	tx, err := a.Begin(ctx)
	require.NoError(t, err)
	for _, id := range []string{"n1", "n2", "n3"} {
		_, err := tx.InsertWithID("notes", id, []byte(`{}`))
		require.NoError(t, err)
	}
	n, err := tx.DeleteMany("notes", []string{"n3"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	docs, err := tx.Query("notes", nil)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	require.NoError(t, tx.Commit())

	ev := waitSynced(t, b)
	assert.Equal(t, 4, ev.Applied)

	count, err := b.Count(ctx, "notes", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDB_TxRollback(t *testing.T) {
	ctx := context.Background()
	db := openBolt(t, newHub(t).Join("a"))

	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Insert("notes", []byte(`{}`))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	assert.ErrorIs(t, tx.Commit(), ErrTxClosed)

	n, err := db.Count(ctx, "notes", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDB_StartFailure(t *testing.T) {
	startErr := errors.New("relay unreachable")
	newTransport := func() *network.TransportMock {
		return &network.TransportMock{
			LocalPeerIDFunc: func() string { return "a" },
			StartFunc:       func(ctx context.Context) error { return startErr },
			StopFunc:        func() error { return nil },
		}
	}

	tests := []struct {
		name     string
		required bool
		wantErr  bool
	}{
		{name: "local-only fallback", required: false, wantErr: false},
		{name: "sync required", required: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openBolt(t, newTransport(), WithSyncRequired(tt.required))

			err := db.Start(context.Background(), uuid.New())
			if tt.wantErr {
				assert.ErrorIs(t, err, startErr)
				return
			}
			require.NoError(t, err)

			_, err = db.Insert(context.Background(), "notes", []byte(`{}`))
			assert.NoError(t, err)
		})
	}
}

func TestDB_CommitFailurePropagates(t *testing.T) {
	tx := &storage.TxMock{
		InsertFunc:        func(collection string, doc models.Document) (string, error) { return "n1", nil },
		SetProvenanceFunc: func(collection, id string, p models.Provenance) error { return nil },
		SetSequenceFunc:   func(sequence uint64) error { return nil },
		AppendOutboxFunc:  func(record models.ChangeRecord) error { return nil },
		TrimOutboxFunc:    func(keep int) error { return nil },
		CommitFunc:        func() error { return storage.ErrStorageClosed },
		RollbackFunc:      func() error { return nil },
	}
	st := &storage.StoreMock{
		LoadSyncStateFunc: func(ctx context.Context) (*storage.SyncState, error) {
			return &storage.SyncState{}, nil
		},
		BeginFunc: func(ctx context.Context) (storage.Tx, error) { return tx, nil },
		CloseFunc: func() error { return nil },
	}

	db := openWith(t, st, newHub(t).Join("a"))

	_, err := db.Insert(context.Background(), "notes", []byte(`{}`))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestDB_Close(t *testing.T) {
	ctx := context.Background()
	hub := newHub(t)
	db := openBolt(t, hub.Join("a"))
	require.NoError(t, db.Start(ctx, uuid.New()))
	assert.ErrorIs(t, db.Start(ctx, uuid.New()), ErrAlreadyStarted)

	require.NoError(t, db.Close(ctx))
	assert.ErrorIs(t, db.Close(ctx), ErrClosed)

	_, err := db.Insert(ctx, "notes", []byte(`{}`))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = db.Get(ctx, "notes", "x")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, db.Start(ctx, uuid.New()), ErrClosed)
}

func TestDB_Events(t *testing.T) {
	ctx := context.Background()
	hub := newHub(t)
	room := uuid.New()
	reg := prometheus.NewRegistry()

	a := openBolt(t, hub.Join("a"))
	b := openBolt(t, hub.Join("b"), WithRegisterer(reg))
	require.NoError(t, a.Start(ctx, room))
	require.NoError(t, b.Start(ctx, room))
	waitRoom(t, a, b)

	anomalies := make(chan Anomaly, 4)
	off := b.OnConvergenceAnomaly(func(an Anomaly) { anomalies <- an })
	defer off()

	// b writes then deletes; a converges to the tombstone
	_, err := b.Upsert(ctx, "notes", "n1", []byte(`{"v":"b"}`))
	require.NoError(t, err)
	waitSynced(t, a)
	_, err = b.Delete(ctx, "notes", "n1")
	require.NoError(t, err)
	waitSynced(t, a)

	_, err = a.Get(ctx, "notes", "n1")
	assert.ErrorIs(t, err, ErrNotFound)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "docsync_sync_bursts_total")

	select {
	case an := <-anomalies:
		assert.Failf(t, "unexpected anomaly", "entity %s", an.EntityID)
	default:
	}
}
