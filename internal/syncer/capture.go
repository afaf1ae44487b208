package syncer

import (
	"context"
	"fmt"

	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/storage"
	"github.com/iudanet/docsync/internal/validation"
)

// LocalTx groups local mutations. Each mutation produces one change record;
// all records of a committed LocalTx are published together.
// Only one LocalTx (or remote apply) runs at a time per engine.
type LocalTx struct {
	engine  *Engine
	tx      storage.Tx
	records []models.ChangeRecord
	last    uint64 // Previous для следующей записи
	done    bool
}

// Begin opens a local transaction and takes the engine write lock until Commit or Rollback
func (e *Engine) Begin(ctx context.Context) (*LocalTx, error) {
	e.writeMu.Lock()

	tx, err := e.store.Begin(ctx)
	if err != nil {
		e.writeMu.Unlock()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &LocalTx{engine: e, tx: tx, last: e.head.Load()}, nil
}

// Insert stores a new document; an empty id is assigned by the store
func (t *LocalTx) Insert(collection string, doc models.Document) (string, error) {
	if err := t.check(collection); err != nil {
		return "", err
	}

	id, err := t.tx.Insert(collection, doc)
	if err != nil {
		return "", err
	}
	if err := t.capture(models.KindInsert, collection, models.ScalarID(id), doc.Data); err != nil {
		return "", err
	}
	return id, nil
}

// Update replaces an existing document. A missing document is not an error and produces no record.
func (t *LocalTx) Update(collection string, doc models.Document) (bool, error) {
	if err := t.check(collection); err != nil {
		return false, err
	}

	found, err := t.tx.Update(collection, doc)
	if err != nil || !found {
		return false, err
	}
	return true, t.capture(models.KindUpdate, collection, models.ScalarID(doc.ID), doc.Data)
}

// Upsert inserts or replaces a document and reports whether it was inserted
func (t *LocalTx) Upsert(collection string, doc models.Document) (bool, error) {
	if err := t.check(collection); err != nil {
		return false, err
	}

	inserted, err := t.tx.Upsert(collection, doc)
	if err != nil {
		return false, err
	}
	return inserted, t.capture(models.KindUpsert, collection, models.ScalarID(doc.ID), doc.Data)
}

// Delete removes a document. Deleting a missing document produces no record.
func (t *LocalTx) Delete(collection, id string) (bool, error) {
	if err := t.check(collection); err != nil {
		return false, err
	}

	found, err := t.tx.Delete(collection, id)
	if err != nil || !found {
		return false, err
	}
	return true, t.capture(models.KindDelete, collection, models.ScalarID(id), nil)
}

// DeleteMany removes documents by id. One record lists the ids that actually existed.
func (t *LocalTx) DeleteMany(collection string, ids []string) (int, error) {
	if err := t.check(collection); err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(ids))
	removed := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		found, err := t.tx.Delete(collection, id)
		if err != nil {
			return 0, err
		}
		if found {
			removed = append(removed, id)
		}
	}

	if len(removed) == 0 {
		return 0, nil
	}
	return len(removed), t.capture(models.KindDeleteMany, collection, models.ListID(removed...), nil)
}

// DeleteWhere resolves predicate to an id list and deletes it like DeleteMany
func (t *LocalTx) DeleteWhere(collection string, predicate models.Predicate) (int, error) {
	docs, err := t.Query(collection, predicate)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return t.DeleteMany(collection, ids)
}

// Query reads documents as seen inside the transaction
func (t *LocalTx) Query(collection string, predicate models.Predicate) ([]models.Document, error) {
	if t.done {
		return nil, storage.ErrTxClosed
	}
	return t.tx.Fetch(collection, predicate)
}

func (t *LocalTx) check(collection string) error {
	if t.done {
		return storage.ErrTxClosed
	}
	// "" is the default collection
	return validation.ValidateCollection(models.CollectionName(collection))
}

// Records returns the records captured so far
func (t *LocalTx) Records() []models.ChangeRecord {
	out := make([]models.ChangeRecord, 0, len(t.records))
	for i := range t.records {
		out = append(out, t.records[i].Clone())
	}
	return out
}

// capture stamps one mutation with the next sequence and records its provenance
func (t *LocalTx) capture(kind models.Kind, collection string, entity models.EntityID, payload []byte) error {
	e := t.engine

	record := models.ChangeRecord{
		Collection: collection,
		OriginPeer: e.PeerID(),
		EntityID:   entity,
		Sequence:   e.clock.Tick(),
		Previous:   t.last,
		Timestamp:  e.now().UnixNano(),
		Kind:       kind,
	}
	if kind.HasPayload() {
		record.Payload = append(make([]byte, 0, len(payload)), payload...)
	}

	provenance := models.Provenance{Stamp: record.Stamp(), Deleted: !kind.HasPayload()}
	for _, id := range entity.IDs() {
		if err := t.tx.SetProvenance(collection, id, provenance); err != nil {
			return fmt.Errorf("failed to set provenance: %w", err)
		}
	}

	t.records = append(t.records, record)
	t.last = record.Sequence
	return nil
}

// Commit persists the mutations with their outbox records and hands the records to the room.
// A publish failure never undoes a commit.
func (t *LocalTx) Commit() error {
	if t.done {
		return storage.ErrTxClosed
	}
	t.done = true
	e := t.engine

	if err := t.persist(); err != nil {
		_ = t.tx.Rollback()
		e.writeMu.Unlock()
		return err
	}

	if err := t.tx.Commit(); err != nil {
		_ = t.tx.Rollback()
		e.writeMu.Unlock()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	e.head.Store(t.last)
	e.writeMu.Unlock()

	if len(t.records) == 0 {
		return nil
	}

	if ch := e.Channel(); ch != nil {
		ch.enqueue(t.records)
	} else {
		e.logger.Debug("Not connected, records kept in outbox", "count", len(t.records))
	}
	return nil
}

// persist writes the sequence high-water mark and the outbox inside the transaction
func (t *LocalTx) persist() error {
	if len(t.records) == 0 {
		return nil
	}
	e := t.engine

	sequence := e.clock.Current()
	if err := t.tx.SetSequence(sequence); err != nil {
		return fmt.Errorf("failed to save sequence: %w", err)
	}

	for _, record := range t.records {
		if err := t.tx.AppendOutbox(record); err != nil {
			return fmt.Errorf("failed to append outbox: %w", err)
		}
	}

	// Retention 0 keeps the whole outbox
	if retention := e.cfg.OutboxRetention; retention > 0 {
		if err := t.tx.TrimOutbox(retention); err != nil {
			return fmt.Errorf("failed to trim outbox: %w", err)
		}
	}
	return nil
}

// Rollback discards the mutations. Safe to call after Commit.
func (t *LocalTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.engine.writeMu.Unlock()

	t.records = nil
	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
