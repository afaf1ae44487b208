package docsync

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

var noteIDs = IDAccessor[note]{
	Get: func(n *note) string { return n.ID },
	Set: func(n *note, id string) { n.ID = id },
}

func TestNewCollection_RequiresAccessor(t *testing.T) {
	db := openBolt(t, newHub(t).Join("a"))

	_, err := NewCollection(db, "notes", IDAccessor[note]{Get: noteIDs.Get})
	assert.ErrorIs(t, err, ErrNoIDAccessor)
}

func TestCollection_CRUD(t *testing.T) {
	ctx := context.Background()
	db := openBolt(t, newHub(t).Join("a"))

	notes, err := NewCollection(db, "notes", noteIDs)
	require.NoError(t, err)
	assert.Equal(t, "notes", notes.Name())

	n := &note{Title: "buy milk"}
	id, err := notes.Insert(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, id, n.ID, "generated id is written back")

	got, err := notes.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, n, got)

	n.Done = true
	found, err := notes.Update(ctx, n)
	require.NoError(t, err)
	assert.True(t, found)

	inserted, err := notes.Upsert(ctx, &note{ID: "fixed", Title: "call mom"})
	require.NoError(t, err)
	assert.True(t, inserted)

	done, err := notes.Find(ctx, func(n *note) bool { return n.Done })
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, id, done[0].ID)

	removed, err := notes.DeleteWhere(ctx, func(n *note) bool { return n.Done })
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	count, err := notes.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	found, err = notes.Delete(ctx, "fixed")
	require.NoError(t, err)
	assert.True(t, found)

	_, err = notes.Get(ctx, "fixed")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollection_DecodeError(t *testing.T) {
	ctx := context.Background()
	db := openBolt(t, newHub(t).Join("a"))
	notes, err := NewCollection(db, "notes", noteIDs)
	require.NoError(t, err)

	_, err = db.InsertWithID(ctx, "notes", "broken", []byte(`not json`))
	require.NoError(t, err)

	_, err = notes.Get(ctx, "broken")
	assert.Error(t, err)

	_, err = notes.Find(ctx, nil)
	assert.Error(t, err)

	removed, err := notes.DeleteWhere(ctx, func(*note) bool { return true })
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCollection_Replicates(t *testing.T) {
	ctx := context.Background()
	hub := newHub(t)
	room := uuid.New()

	a := openBolt(t, hub.Join("a"))
	b := openSQLite(t, hub.Join("b"))
	require.NoError(t, a.Start(ctx, room))
	require.NoError(t, b.Start(ctx, room))
	waitRoom(t, a, b)

	notesA, err := NewCollection(a, "notes", noteIDs)
	require.NoError(t, err)
	notesB, err := NewCollection(b, "notes", noteIDs)
	require.NoError(t, err)

	id, err := notesA.Insert(ctx, &note{Title: "shared"})
	require.NoError(t, err)
	waitSynced(t, b)

	got, err := notesB.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "shared", got.Title)
}

func TestCollection_ManyPublishOnce(t *testing.T) {
	ctx := context.Background()
	hub := newHub(t)
	room := uuid.New()

	a := openBolt(t, hub.Join("a"))
	b := openBolt(t, hub.Join("b"))
	require.NoError(t, a.Start(ctx, room))
	require.NoError(t, b.Start(ctx, room))
	waitRoom(t, a, b)

	notes, err := NewCollection(a, "notes", noteIDs)
	require.NoError(t, err)

	batch := []*note{{Title: "one"}, {ID: "two", Title: "two"}, {Title: "three"}}
	ids, err := notes.InsertMany(ctx, batch)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, "two", ids[1])
	for i, n := range batch {
		assert.Equal(t, ids[i], n.ID)
	}

	ev := waitSynced(t, b)
	assert.Equal(t, 3, ev.Applied)

	inserted, err := notes.UpsertMany(ctx, []*note{{ID: "two", Title: "second"}, {ID: "four", Title: "four"}})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	ev = waitSynced(t, b)
	assert.Equal(t, 2, ev.Applied)

	count, err := b.Count(ctx, "notes", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestCollection_InsertManyIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := openBolt(t, newHub(t).Join("a"))
	notes, err := NewCollection(db, "notes", noteIDs)
	require.NoError(t, err)

	_, err = notes.Insert(ctx, &note{ID: "taken"})
	require.NoError(t, err)

	_, err = notes.InsertMany(ctx, []*note{{ID: "fresh"}, {ID: "taken"}})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = notes.Get(ctx, "fresh")
	assert.ErrorIs(t, err, ErrNotFound)
}
