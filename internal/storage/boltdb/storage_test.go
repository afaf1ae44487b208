package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/storage"
	"github.com/iudanet/docsync/internal/storage/storagetest"
)

// createTestStorage создает временное хранилище для тестов
func createTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	return s
}

func TestConformance(t *testing.T) {
	(&storagetest.StoreTest{}).Run(t, func(t *testing.T) storage.Store {
		return createTestStorage(t)
	})
}

func TestNew_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, s.Close())
	}()

	// Проверяем что файл БД действительно создан
	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	// Проверяем, что бакеты существуют
	err = s.db.View(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketDocuments, bucketProvenance, bucketMetadata, bucketOutbox} {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		if tx.Bucket(bucketMetadata).Bucket(bucketCursors) == nil {
			return os.ErrNotExist
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestClose(t *testing.T) {
	s := createTestStorage(t)

	require.NoError(t, s.Close())
	assert.Nil(t, s.db)

	// Второй вызов Close не должен падать
	assert.NoError(t, s.Close())

	_, err := s.Get(context.Background(), "c", "a")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = s.Begin(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestReopenKeepsState(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(ctx, dbPath)
	require.NoError(t, err)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Insert("c", models.Document{ID: "a", Data: []byte("1")})
	require.NoError(t, err)
	require.NoError(t, tx.SetSequence(3))
	require.NoError(t, tx.SetCursor("peer", 11))
	require.NoError(t, tx.Commit())
	require.NoError(t, s.Close())

	s, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer s.Close()

	state, err := s.LoadSyncState(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), state.Sequence)
	assert.Equal(t, uint64(11), state.Cursors["peer"])

	doc, err := s.Get(ctx, "c", "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), doc.Data)
}

func TestBegin_CanceledContext(t *testing.T) {
	s := createTestStorage(t)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Begin(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
