// Package storagetest holds the conformance suite every storage.Store adapter runs.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/storage"
)

// Factory opens a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

// StoreTest runs the shared adapter checks.
type StoreTest struct{}

// Run executes every check as a subtest.
func (s *StoreTest) Run(t *testing.T, open Factory) {
	t.Run("InsertAndGet", func(t *testing.T) { s.TestInsertAndGet(t, openStore(t, open)) })
	t.Run("InsertAssignsID", func(t *testing.T) { s.TestInsertAssignsID(t, openStore(t, open)) })
	t.Run("InsertDuplicate", func(t *testing.T) { s.TestInsertDuplicate(t, openStore(t, open)) })
	t.Run("UpdateUpsert", func(t *testing.T) { s.TestUpdateUpsert(t, openStore(t, open)) })
	t.Run("DeleteMany", func(t *testing.T) { s.TestDeleteMany(t, openStore(t, open)) })
	t.Run("Rollback", func(t *testing.T) { s.TestRollback(t, openStore(t, open)) })
	t.Run("CollectionsIsolated", func(t *testing.T) { s.TestCollectionsIsolated(t, openStore(t, open)) })
	t.Run("Provenance", func(t *testing.T) { s.TestProvenance(t, openStore(t, open)) })
	t.Run("SyncState", func(t *testing.T) { s.TestSyncState(t, openStore(t, open)) })
	t.Run("Outbox", func(t *testing.T) { s.TestOutbox(t, openStore(t, open)) })
	t.Run("TxClosed", func(t *testing.T) { s.TestTxClosed(t, openStore(t, open)) })
}

// openStore closes the store after every transaction cleanup has run
func openStore(t *testing.T, open Factory) storage.Store {
	t.Helper()
	st := open(t)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func begin(t *testing.T, st storage.Store) storage.Tx {
	t.Helper()
	tx, err := st.Begin(context.Background())
	require.NoError(t, err, "failed to begin")
	t.Cleanup(func() { _ = tx.Rollback() })
	return tx
}

func (s *StoreTest) TestInsertAndGet(t *testing.T, st storage.Store) {
	ctx := context.Background()

	tx := begin(t, st)
	id, err := tx.Insert("notes", models.Document{ID: "a1", Data: []byte(`{"n":1}`)})
	require.NoError(t, err)
	assert.Equal(t, "a1", id)

	_, err = tx.Insert("notes", models.Document{ID: "empty", Data: []byte{}})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	doc, err := st.Get(ctx, "notes", "a1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"n":1}`), doc.Data)

	doc, err = st.Get(ctx, "notes", "empty")
	require.NoError(t, err)
	assert.Empty(t, doc.Data)

	_, err = st.Get(ctx, "notes", "missing")
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)

	_, err = st.Get(ctx, "unknown", "a1")
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
}

func (s *StoreTest) TestInsertAssignsID(t *testing.T, st storage.Store) {

	tx := begin(t, st)
	id1, err := tx.Insert("", models.Document{Data: []byte("x")})
	require.NoError(t, err)
	id2, err := tx.Insert("", models.Document{Data: []byte("y")})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)

	docs, err := st.Query(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	// Пустое имя коллекции и "_default" указывают на одну коллекцию
	doc, err := st.Get(context.Background(), models.DefaultCollection, id1)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), doc.Data)
}

func (s *StoreTest) TestInsertDuplicate(t *testing.T, st storage.Store) {

	tx := begin(t, st)
	_, err := tx.Insert("c", models.Document{ID: "a", Data: []byte("1")})
	require.NoError(t, err)
	_, err = tx.Insert("c", models.Document{ID: "a", Data: []byte("2")})
	assert.ErrorIs(t, err, storage.ErrDuplicateID)
}

func (s *StoreTest) TestUpdateUpsert(t *testing.T, st storage.Store) {
	ctx := context.Background()

	tx := begin(t, st)
	found, err := tx.Update("c", models.Document{ID: "a", Data: []byte("1")})
	require.NoError(t, err)
	assert.False(t, found, "update of missing document")

	inserted, err := tx.Upsert("c", models.Document{ID: "a", Data: []byte("1")})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = tx.Upsert("c", models.Document{ID: "a", Data: []byte("2")})
	require.NoError(t, err)
	assert.False(t, inserted)

	found, err = tx.Update("c", models.Document{ID: "a", Data: []byte("3")})
	require.NoError(t, err)
	assert.True(t, found)
	require.NoError(t, tx.Commit())

	doc, err := st.Get(ctx, "c", "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), doc.Data)
}

func (s *StoreTest) TestDeleteMany(t *testing.T, st storage.Store) {
	ctx := context.Background()

	tx := begin(t, st)
	for _, id := range []string{"a", "b", "c"} {
		_, err := tx.Insert("c", models.Document{ID: id, Data: []byte(id)})
		require.NoError(t, err)
	}

	docs, err := tx.Fetch("c", func(d models.Document) bool { return d.ID != "b" })
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	n, err := tx.DeleteMany("c", []string{"a", "c", "zzz"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	found, err := tx.Delete("c", "a")
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, tx.Commit())

	docs, err = st.Query(ctx, "c", nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].ID)
}

func (s *StoreTest) TestRollback(t *testing.T, st storage.Store) {
	ctx := context.Background()

	tx := begin(t, st)
	_, err := tx.Insert("c", models.Document{ID: "a", Data: []byte("1")})
	require.NoError(t, err)
	require.NoError(t, tx.SetSequence(7))
	require.NoError(t, tx.Rollback())

	_, err = st.Get(ctx, "c", "a")
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)

	state, err := st.LoadSyncState(ctx)
	require.NoError(t, err)
	assert.Zero(t, state.Sequence)
}

func (s *StoreTest) TestCollectionsIsolated(t *testing.T, st storage.Store) {
	ctx := context.Background()

	tx := begin(t, st)
	_, err := tx.Insert("one", models.Document{ID: "a", Data: []byte("1")})
	require.NoError(t, err)
	_, err = tx.Insert("two", models.Document{ID: "a", Data: []byte("2")})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	d1, err := st.Get(ctx, "one", "a")
	require.NoError(t, err)
	d2, err := st.Get(ctx, "two", "a")
	require.NoError(t, err)
	assert.NotEqual(t, d1.Data, d2.Data)

	docs, err := st.Query(ctx, "three", nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func (s *StoreTest) TestProvenance(t *testing.T, st storage.Store) {

	tx := begin(t, st)
	p, err := tx.Provenance("c", "a")
	require.NoError(t, err)
	assert.Nil(t, p)

	want := models.Provenance{
		Stamp:   models.Stamp{Origin: "peer-1", Sequence: 3, Timestamp: -5},
		Deleted: true,
	}
	require.NoError(t, tx.SetProvenance("c", "a", want))
	require.NoError(t, tx.Commit())

	tx = begin(t, st)
	p, err = tx.Provenance("c", "a")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, want, *p)

	// Перезапись
	want.Sequence, want.Deleted = 4, false
	require.NoError(t, tx.SetProvenance("c", "a", want))
	p, err = tx.Provenance("c", "a")
	require.NoError(t, err)
	assert.Equal(t, want, *p)
}

func (s *StoreTest) TestSyncState(t *testing.T, st storage.Store) {
	ctx := context.Background()

	state, err := st.LoadSyncState(ctx)
	require.NoError(t, err)
	assert.Zero(t, state.Sequence)
	assert.Zero(t, state.LastOwn)
	assert.Empty(t, state.Cursors)

	tx := begin(t, st)
	require.NoError(t, tx.SetSequence(42))
	require.NoError(t, tx.SetCursor("peer-a", 5))
	require.NoError(t, tx.SetCursor("peer-b", 9))
	require.NoError(t, tx.SetCursor("peer-a", 6))
	require.NoError(t, tx.Commit())

	state, err = st.LoadSyncState(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), state.Sequence)
	assert.Equal(t, map[string]uint64{"peer-a": 6, "peer-b": 9}, state.Cursors)
}

func (s *StoreTest) TestOutbox(t *testing.T, st storage.Store) {
	ctx := context.Background()

	// последовательность с пропусками, как после Witness удаленных записей
	sequences := []uint64{1, 2, 10, 50, 1000}

	tx := begin(t, st)
	var previous uint64
	for i, seq := range sequences {
		require.NoError(t, tx.AppendOutbox(models.ChangeRecord{
			Kind:       models.KindUpsert,
			Collection: "c",
			EntityID:   models.ScalarID("a"),
			Payload:    []byte{byte(i)},
			OriginPeer: "me",
			Sequence:   seq,
			Previous:   previous,
			Timestamp:  int64(seq),
		}))
		previous = seq
	}
	require.NoError(t, tx.Commit())

	state, err := st.LoadSyncState(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), state.LastOwn)

	records, err := st.OutboxAfter(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, uint64(10), records[0].Sequence)
	assert.Equal(t, uint64(2), records[0].Previous)
	assert.Equal(t, []byte{2}, records[0].Payload)

	records, err = st.OutboxAfter(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint64(2), records[1].Sequence)

	// больше записей, чем есть, ничего не удаляет
	tx = begin(t, st)
	require.NoError(t, tx.TrimOutbox(10))
	require.NoError(t, tx.Commit())

	records, err = st.OutboxAfter(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 5)

	tx = begin(t, st)
	require.NoError(t, tx.TrimOutbox(2))
	require.NoError(t, tx.Commit())

	records, err = st.OutboxAfter(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint64(50), records[0].Sequence)
	assert.Equal(t, uint64(1000), records[1].Sequence)

	state, err = st.LoadSyncState(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), state.LastOwn)
}

func (s *StoreTest) TestTxClosed(t *testing.T, st storage.Store) {

	tx := begin(t, st)
	require.NoError(t, tx.Commit())

	_, err := tx.Insert("c", models.Document{ID: "a"})
	assert.ErrorIs(t, err, storage.ErrTxClosed)
	assert.ErrorIs(t, tx.Commit(), storage.ErrTxClosed)
	assert.NoError(t, tx.Rollback())
}
