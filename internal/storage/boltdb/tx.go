package boltdb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.etcd.io/bbolt"

	"github.com/iudanet/docsync/internal/codec"
	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/storage"
)

// boltTx wraps a writable bbolt transaction
type boltTx struct {
	tx     *bbolt.Tx
	closed bool
}

var _ storage.Tx = (*boltTx)(nil)

func (t *boltTx) check() error {
	if t.closed {
		return storage.ErrTxClosed
	}
	return nil
}

// bucket returns (creating on demand) the nested bucket of collection under root
func (t *boltTx) bucket(root []byte, collection string) (*bbolt.Bucket, error) {
	parent := t.tx.Bucket(root)
	if parent == nil {
		return nil, fmt.Errorf("%s bucket not found", root)
	}
	b, err := parent.CreateBucketIfNotExists([]byte(models.CollectionName(collection)))
	if err != nil {
		return nil, fmt.Errorf("failed to create collection bucket: %w", err)
	}
	return b, nil
}

func (t *boltTx) Insert(collection string, doc models.Document) (string, error) {
	if err := t.check(); err != nil {
		return "", err
	}

	b, err := t.bucket(bucketDocuments, collection)
	if err != nil {
		return "", err
	}

	id := doc.ID
	if id == "" {
		id = ulid.Make().String()
	}
	if has(b, []byte(id)) {
		return "", storage.ErrDuplicateID
	}

	if err := b.Put([]byte(id), nonNil(bytes.Clone(doc.Data))); err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return id, nil
}

func (t *boltTx) Update(collection string, doc models.Document) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}

	b, err := t.bucket(bucketDocuments, collection)
	if err != nil {
		return false, err
	}
	if !has(b, []byte(doc.ID)) {
		return false, nil
	}

	if err := b.Put([]byte(doc.ID), nonNil(bytes.Clone(doc.Data))); err != nil {
		return false, fmt.Errorf("failed to update document: %w", err)
	}
	return true, nil
}

func (t *boltTx) Upsert(collection string, doc models.Document) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}
	if doc.ID == "" {
		return false, fmt.Errorf("upsert requires id: %w", models.ErrInvalidRecord)
	}

	b, err := t.bucket(bucketDocuments, collection)
	if err != nil {
		return false, err
	}
	inserted := !has(b, []byte(doc.ID))

	if err := b.Put([]byte(doc.ID), nonNil(bytes.Clone(doc.Data))); err != nil {
		return false, fmt.Errorf("failed to upsert document: %w", err)
	}
	return inserted, nil
}

func (t *boltTx) Delete(collection, id string) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}

	b, err := t.bucket(bucketDocuments, collection)
	if err != nil {
		return false, err
	}
	if !has(b, []byte(id)) {
		return false, nil
	}

	if err := b.Delete([]byte(id)); err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return true, nil
}

func (t *boltTx) DeleteMany(collection string, ids []string) (int, error) {
	removed := 0
	for _, id := range ids {
		ok, err := t.Delete(collection, id)
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

func (t *boltTx) Fetch(collection string, predicate models.Predicate) ([]models.Document, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	return scan(collectionBucket(t.tx, bucketDocuments, collection), predicate)
}

func (t *boltTx) Provenance(collection, id string) (*models.Provenance, error) {
	if err := t.check(); err != nil {
		return nil, err
	}

	b := collectionBucket(t.tx, bucketProvenance, collection)
	if b == nil {
		return nil, nil
	}
	data := b.Get([]byte(id))
	if data == nil {
		return nil, nil
	}

	// Десериализуем
	p := &models.Provenance{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal provenance: %w", err)
	}
	return p, nil
}

func (t *boltTx) SetProvenance(collection, id string, p models.Provenance) error {
	if err := t.check(); err != nil {
		return err
	}

	b, err := t.bucket(bucketProvenance, collection)
	if err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal provenance: %w", err)
	}
	if err := b.Put([]byte(id), data); err != nil {
		return fmt.Errorf("failed to save provenance: %w", err)
	}
	return nil
}

func (t *boltTx) SetCursor(origin string, sequence uint64) error {
	if err := t.check(); err != nil {
		return err
	}

	meta := t.tx.Bucket(bucketMetadata)
	if meta == nil {
		return fmt.Errorf("metadata bucket not found")
	}
	cursors := meta.Bucket(bucketCursors)
	if cursors == nil {
		return fmt.Errorf("cursors bucket not found")
	}

	if err := cursors.Put([]byte(origin), seqKey(sequence)); err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}
	return nil
}

func (t *boltTx) SetSequence(sequence uint64) error {
	if err := t.check(); err != nil {
		return err
	}

	meta := t.tx.Bucket(bucketMetadata)
	if meta == nil {
		return fmt.Errorf("metadata bucket not found")
	}
	if err := meta.Put(keySequence, seqKey(sequence)); err != nil {
		return fmt.Errorf("failed to save sequence: %w", err)
	}
	return nil
}

func (t *boltTx) AppendOutbox(record models.ChangeRecord) error {
	if err := t.check(); err != nil {
		return err
	}

	if err := record.Validate(); err != nil {
		return fmt.Errorf("outbox record: %w", err)
	}
	data := codec.EncodeRecord(record)

	b := t.tx.Bucket(bucketOutbox)
	if b == nil {
		return fmt.Errorf("outbox bucket not found")
	}
	if err := b.Put(seqKey(record.Sequence), data); err != nil {
		return fmt.Errorf("failed to append outbox record: %w", err)
	}
	return nil
}

func (t *boltTx) TrimOutbox(keep int) error {
	if err := t.check(); err != nil {
		return err
	}

	b := t.tx.Bucket(bucketOutbox)
	if b == nil {
		return fmt.Errorf("outbox bucket not found")
	}

	// Ключи big-endian: идем с конца, пропускаем keep новейших записей
	c := b.Cursor()
	k, _ := c.Last()
	for i := 0; i < keep && k != nil; i++ {
		k, _ = c.Prev()
	}

	var stale [][]byte
	for ; k != nil; k, _ = c.Prev() {
		stale = append(stale, append([]byte(nil), k...))
	}
	for _, key := range stale {
		if err := b.Delete(key); err != nil {
			return fmt.Errorf("failed to trim outbox: %w", err)
		}
	}
	return nil
}

func (t *boltTx) Commit() error {
	if err := t.check(); err != nil {
		return err
	}
	t.closed = true

	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *boltTx) Rollback() error {
	if t.closed {
		return nil
	}
	t.closed = true

	if err := t.tx.Rollback(); err != nil && !errors.Is(err, bbolt.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
