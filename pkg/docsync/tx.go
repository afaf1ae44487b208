package docsync

import (
	"github.com/iudanet/docsync/internal/syncer"
)

// Tx is a local transaction. Use it from one goroutine and end it with Commit or Rollback.
// Read through Tx.Query while it is open: the SQLite store has a single connection,
// so DB reads wait for the transaction to end.
type Tx struct {
	tx *syncer.LocalTx
}

// Insert stores data under a new store-assigned id
func (t *Tx) Insert(collection string, data []byte) (string, error) {
	return t.InsertWithID(collection, "", data)
}

// InsertWithID stores data under id; an empty id is assigned by the store
func (t *Tx) InsertWithID(collection, id string, data []byte) (string, error) {
	return t.tx.Insert(collection, Document{ID: id, Data: data})
}

// Update replaces an existing document and reports whether it existed
func (t *Tx) Update(collection, id string, data []byte) (bool, error) {
	return t.tx.Update(collection, Document{ID: id, Data: data})
}

// Upsert inserts or replaces a document and reports whether it was inserted
func (t *Tx) Upsert(collection, id string, data []byte) (bool, error) {
	return t.tx.Upsert(collection, Document{ID: id, Data: data})
}

// Delete removes a document and reports whether it existed
func (t *Tx) Delete(collection, id string) (bool, error) {
	return t.tx.Delete(collection, id)
}

// DeleteMany removes documents by id and returns how many existed
func (t *Tx) DeleteMany(collection string, ids []string) (int, error) {
	return t.tx.DeleteMany(collection, ids)
}

// DeleteWhere removes documents accepted by predicate
func (t *Tx) DeleteWhere(collection string, predicate Predicate) (int, error) {
	if predicate == nil {
		predicate = All
	}
	return t.tx.DeleteWhere(collection, predicate)
}

// Query reads documents including the uncommitted writes of this transaction
func (t *Tx) Query(collection string, predicate Predicate) ([]Document, error) {
	return t.tx.Query(collection, predicate)
}

// Commit persists the writes and publishes them as one message
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback discards the writes. Safe after Commit.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
