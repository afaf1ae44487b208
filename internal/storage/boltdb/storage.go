package boltdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/iudanet/docsync/internal/codec"
	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/storage"
)

var (
	// BoltDB bucket names
	bucketDocuments  = []byte("documents")
	bucketProvenance = []byte("provenance")
	bucketMetadata   = []byte("metadata")
	bucketCursors    = []byte("cursors")
	bucketOutbox     = []byte("outbox")

	keySequence = []byte("sequence")
)

// Storage is a BoltDB document store.
// Every collection is a nested bucket under documents and provenance.
type Storage struct {
	db *bbolt.DB
	mu sync.RWMutex
}

var _ storage.Store = (*Storage)(nil)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketDocuments, bucketProvenance, bucketOutbox} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}

		meta, err := tx.CreateBucketIfNotExists(bucketMetadata)
		if err != nil {
			return fmt.Errorf("failed to create metadata bucket: %w", err)
		}
		if _, err := meta.CreateBucketIfNotExists(bucketCursors); err != nil {
			return fmt.Errorf("failed to create cursors bucket: %w", err)
		}

		return nil
	})
}

// view runs fn in a read-only transaction
func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.View(fn)
}

// Begin starts a read-write transaction
func (s *Storage) Begin(ctx context.Context) (storage.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	db := s.db
	s.mu.RUnlock()
	if db == nil {
		return nil, storage.ErrStorageClosed
	}

	tx, err := db.Begin(true)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &boltTx{tx: tx}, nil
}

// Get retrieves a document by ID
func (s *Storage) Get(ctx context.Context, collection, id string) (models.Document, error) {
	var doc models.Document

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := collectionBucket(tx, bucketDocuments, collection)
		if bucket == nil {
			return storage.ErrDocumentNotFound
		}

		if !has(bucket, []byte(id)) {
			return storage.ErrDocumentNotFound
		}

		doc = models.Document{ID: id, Data: nonNil(bytes.Clone(bucket.Get([]byte(id))))}
		return nil
	})
	if err != nil {
		return models.Document{}, err
	}

	return doc, nil
}

// Query returns all documents of collection accepted by predicate
func (s *Storage) Query(ctx context.Context, collection string, predicate models.Predicate) ([]models.Document, error) {
	var docs []models.Document

	err := s.view(func(tx *bbolt.Tx) error {
		var err error
		docs, err = scan(collectionBucket(tx, bucketDocuments, collection), predicate)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", models.CollectionName(collection), err)
	}

	return docs, nil
}

// LoadSyncState returns cursors, sequence high-water mark and the newest outbox sequence
func (s *Storage) LoadSyncState(ctx context.Context) (*storage.SyncState, error) {
	state := &storage.SyncState{Cursors: make(map[string]uint64)}

	err := s.view(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMetadata)
		if meta == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if v := meta.Get(keySequence); v != nil {
			state.Sequence = binary.BigEndian.Uint64(v)
		}

		outbox := tx.Bucket(bucketOutbox)
		if outbox == nil {
			return fmt.Errorf("outbox bucket not found")
		}
		if k, _ := outbox.Cursor().Last(); k != nil {
			state.LastOwn = binary.BigEndian.Uint64(k)
		}

		cursors := meta.Bucket(bucketCursors)
		if cursors == nil {
			return fmt.Errorf("cursors bucket not found")
		}
		return cursors.ForEach(func(k, v []byte) error {
			state.Cursors[string(k)] = binary.BigEndian.Uint64(v)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load sync state: %w", err)
	}

	return state, nil
}

// OutboxAfter returns locally produced records with sequence > after
func (s *Storage) OutboxAfter(ctx context.Context, after uint64, limit int) ([]models.ChangeRecord, error) {
	var records []models.ChangeRecord

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOutbox)
		if bucket == nil {
			return fmt.Errorf("outbox bucket not found")
		}

		c := bucket.Cursor()
		for k, v := c.Seek(seqKey(after + 1)); k != nil; k, v = c.Next() {
			if limit > 0 && len(records) >= limit {
				break
			}
			r, err := codec.DecodeRecord(v)
			if err != nil {
				return fmt.Errorf("outbox record %d: %w", binary.BigEndian.Uint64(k), err)
			}
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read outbox: %w", err)
	}

	return records, nil
}

// collectionBucket returns the nested bucket of collection under root, or nil
func collectionBucket(tx *bbolt.Tx, root []byte, collection string) *bbolt.Bucket {
	parent := tx.Bucket(root)
	if parent == nil {
		return nil
	}
	return parent.Bucket([]byte(models.CollectionName(collection)))
}

// scan collects documents of bucket accepted by predicate. nil bucket is an empty collection.
func scan(bucket *bbolt.Bucket, predicate models.Predicate) ([]models.Document, error) {
	docs := []models.Document{}
	if bucket == nil {
		return docs, nil
	}
	if predicate == nil {
		predicate = models.All
	}

	err := bucket.ForEach(func(k, v []byte) error {
		doc := models.Document{ID: string(k), Data: nonNil(bytes.Clone(v))}
		if predicate(doc) {
			docs = append(docs, doc)
		}
		return nil
	})
	return docs, err
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// has reports whether key is present, including keys with empty values
func has(b *bbolt.Bucket, key []byte) bool {
	k, _ := b.Cursor().Seek(key)
	return bytes.Equal(k, key)
}

func nonNil(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return data
}
