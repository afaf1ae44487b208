package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/iudanet/docsync/internal/codec"
	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/storage"
)

// sqlTx wraps *sql.Tx; every statement runs with the context passed to Begin
type sqlTx struct {
	ctx    context.Context
	tx     *sql.Tx
	closed bool
}

var _ storage.Tx = (*sqlTx)(nil)

func (t *sqlTx) check() error {
	if t.closed {
		return storage.ErrTxClosed
	}
	return nil
}

func (t *sqlTx) exists(collection, id string) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT 1 FROM documents WHERE collection = ? AND id = ?`,
		models.CollectionName(collection), id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check document: %w", err)
	}
	return true, nil
}

func (t *sqlTx) Insert(collection string, doc models.Document) (string, error) {
	if err := t.check(); err != nil {
		return "", err
	}

	id := doc.ID
	if id == "" {
		id = ulid.Make().String()
	}

	found, err := t.exists(collection, id)
	if err != nil {
		return "", err
	}
	if found {
		return "", storage.ErrDuplicateID
	}

	_, err = t.tx.ExecContext(t.ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		models.CollectionName(collection), id, nonNil(doc.Data),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return id, nil
}

func (t *sqlTx) Update(collection string, doc models.Document) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}

	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE documents SET data = ? WHERE collection = ? AND id = ?`,
		nonNil(doc.Data), models.CollectionName(collection), doc.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update document: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n > 0, nil
}

func (t *sqlTx) Upsert(collection string, doc models.Document) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}
	if doc.ID == "" {
		return false, fmt.Errorf("upsert requires id: %w", models.ErrInvalidRecord)
	}

	found, err := t.exists(collection, doc.ID)
	if err != nil {
		return false, err
	}

	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data
	`, models.CollectionName(collection), doc.ID, nonNil(doc.Data))
	if err != nil {
		return false, fmt.Errorf("failed to upsert document: %w", err)
	}
	return !found, nil
}

func (t *sqlTx) Delete(collection, id string) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}

	res, err := t.tx.ExecContext(t.ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		models.CollectionName(collection), id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n > 0, nil
}

func (t *sqlTx) DeleteMany(collection string, ids []string) (int, error) {
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

func (t *sqlTx) Fetch(collection string, predicate models.Predicate) ([]models.Document, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	return queryDocuments(t.ctx, t.tx, collection, predicate)
}

func (t *sqlTx) Provenance(collection, id string) (*models.Provenance, error) {
	if err := t.check(); err != nil {
		return nil, err
	}

	var (
		p       models.Provenance
		seq     int64
		deleted int
	)
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT origin, sequence, timestamp, deleted
		FROM provenance WHERE collection = ? AND id = ?
	`, models.CollectionName(collection), id).Scan(&p.Origin, &seq, &p.Timestamp, &deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provenance: %w", err)
	}

	p.Sequence = uint64(seq)
	p.Deleted = deleted == 1
	return &p, nil
}

func (t *sqlTx) SetProvenance(collection, id string, p models.Provenance) error {
	if err := t.check(); err != nil {
		return err
	}

	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO provenance (collection, id, origin, sequence, timestamp, deleted)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			origin = excluded.origin,
			sequence = excluded.sequence,
			timestamp = excluded.timestamp,
			deleted = excluded.deleted
	`, models.CollectionName(collection), id, p.Origin, int64(p.Sequence), p.Timestamp, boolToInt(p.Deleted))
	if err != nil {
		return fmt.Errorf("failed to save provenance: %w", err)
	}
	return nil
}

func (t *sqlTx) SetCursor(origin string, sequence uint64) error {
	if err := t.check(); err != nil {
		return err
	}

	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO cursors (origin, sequence) VALUES (?, ?)
		ON CONFLICT (origin) DO UPDATE SET sequence = excluded.sequence
	`, origin, int64(sequence))
	if err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}
	return nil
}

func (t *sqlTx) SetSequence(sequence uint64) error {
	if err := t.check(); err != nil {
		return err
	}

	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, keySequence, int64(sequence))
	if err != nil {
		return fmt.Errorf("failed to save sequence: %w", err)
	}
	return nil
}

func (t *sqlTx) AppendOutbox(record models.ChangeRecord) error {
	if err := t.check(); err != nil {
		return err
	}

	if err := record.Validate(); err != nil {
		return fmt.Errorf("outbox record: %w", err)
	}
	data := codec.EncodeRecord(record)

	_, err := t.tx.ExecContext(t.ctx,
		`INSERT OR REPLACE INTO outbox (sequence, record) VALUES (?, ?)`,
		int64(record.Sequence), data,
	)
	if err != nil {
		return fmt.Errorf("failed to append outbox record: %w", err)
	}
	return nil
}

func (t *sqlTx) TrimOutbox(keep int) error {
	if err := t.check(); err != nil {
		return err
	}

	// Подзапрос дает NULL, пока записей не больше keep, и тогда ничего не удаляется
	_, err := t.tx.ExecContext(t.ctx, `
		DELETE FROM outbox WHERE sequence <= (
			SELECT sequence FROM outbox ORDER BY sequence DESC LIMIT 1 OFFSET ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("failed to trim outbox: %w", err)
	}
	return nil
}

func (t *sqlTx) Commit() error {
	if err := t.check(); err != nil {
		return err
	}
	t.closed = true

	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *sqlTx) Rollback() error {
	if t.closed {
		return nil
	}
	t.closed = true

	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// boolToInt converts bool to int for SQLite storage
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nonNil keeps the NOT NULL constraint satisfied for empty documents
func nonNil(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return data
}
