package storage

import (
	"context"

	"github.com/iudanet/docsync/internal/models"
)

//go:generate moq -out store_mock.go . Store Tx

// SyncState is the replication state persisted next to the documents.
type SyncState struct {
	// Cursors maps origin peer to the highest processed sequence
	Cursors map[string]uint64

	// Sequence is the high-water mark of locally issued sequence numbers
	Sequence uint64

	// LastOwn is the sequence of the newest outbox record, 0 when the outbox is empty
	LastOwn uint64
}

// Store defines the document store consumed by the sync engine.
// Reads run on consistent snapshots and never need the write lock.
type Store interface {
	// Begin starts a read-write transaction.
	// Only one write transaction may be open at a time; callers serialize them.
	Begin(ctx context.Context) (Tx, error)

	// Get retrieves a document by ID
	// Returns ErrDocumentNotFound if document doesn't exist
	Get(ctx context.Context, collection, id string) (models.Document, error)

	// Query returns all documents of collection accepted by predicate
	// nil predicate accepts every document
	Query(ctx context.Context, collection string, predicate models.Predicate) ([]models.Document, error)

	// LoadSyncState returns cursors, sequence high-water mark and the newest outbox sequence
	LoadSyncState(ctx context.Context) (*SyncState, error)

	// OutboxAfter returns locally produced records with sequence > after,
	// ordered by sequence, at most limit records (limit <= 0 means no limit)
	OutboxAfter(ctx context.Context, after uint64, limit int) ([]models.ChangeRecord, error)

	// Close closes the underlying database
	Close() error
}

// Tx is a read-write transaction. Nothing is visible to readers until Commit.
// A Tx must be used from a single goroutine.
type Tx interface {
	// Insert stores a new document and returns its id.
	// An empty doc.ID is replaced by a store-assigned id.
	// Returns ErrDuplicateID if the id already exists.
	Insert(collection string, doc models.Document) (string, error)

	// Update replaces an existing document. Returns false if it does not exist.
	Update(collection string, doc models.Document) (bool, error)

	// Upsert inserts or replaces a document. Returns true if it was inserted.
	Upsert(collection string, doc models.Document) (bool, error)

	// Delete removes a document. Returns false if it did not exist.
	Delete(collection, id string) (bool, error)

	// DeleteMany removes documents by id and returns how many existed.
	DeleteMany(collection string, ids []string) (int, error)

	// Fetch returns documents accepted by predicate, as seen inside the transaction.
	Fetch(collection string, predicate models.Predicate) ([]models.Document, error)

	// Provenance returns the stored LWW provenance of a document id, or nil if unknown.
	// Provenance outlives deletion (tombstones).
	Provenance(collection, id string) (*models.Provenance, error)

	// SetProvenance stores the LWW provenance of a document id.
	SetProvenance(collection, id string, p models.Provenance) error

	// SetCursor stores the apply cursor of an origin peer.
	SetCursor(origin string, sequence uint64) error

	// SetSequence stores the local sequence high-water mark.
	SetSequence(sequence uint64) error

	// AppendOutbox stores a locally produced record for catch-up replies.
	AppendOutbox(record models.ChangeRecord) error

	// TrimOutbox keeps the newest keep outbox records and removes the older ones.
	TrimOutbox(keep int) error

	// Commit makes all writes durable.
	Commit() error

	// Rollback discards all writes. Safe to call after Commit.
	Rollback() error
}
