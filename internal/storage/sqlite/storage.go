package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/docsync/internal/codec"
	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const keySequence = "sequence"

// Storage represents SQLite document store implementation.
// The pool holds a single connection, so a read issued while a write
// transaction is open waits for it to finish.
type Storage struct {
	db     *sql.DB
	closed atomic.Bool
}

var _ storage.Store = (*Storage)(nil)

// New creates a new SQLite storage instance
// dbPath is the path to the SQLite database file
// Use ":memory:" for in-memory database (useful for testing)
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем соединение с БД
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite поддерживает только одного писателя
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Storage{db: db}

	// Запускаем миграции
	if err := s.runMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// runMigrations выполняет миграции из embedded FS
func (s *Storage) runMigrations(ctx context.Context) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// Begin starts a read-write transaction
func (s *Storage) Begin(ctx context.Context) (storage.Tx, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqlTx{ctx: ctx, tx: tx}, nil
}

// Get retrieves a document by ID
func (s *Storage) Get(ctx context.Context, collection, id string) (models.Document, error) {
	if s.closed.Load() {
		return models.Document{}, storage.ErrStorageClosed
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		models.CollectionName(collection), id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, storage.ErrDocumentNotFound
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to get document: %w", err)
	}

	return models.Document{ID: id, Data: data}, nil
}

// Query returns all documents of collection accepted by predicate
func (s *Storage) Query(ctx context.Context, collection string, predicate models.Predicate) ([]models.Document, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	return queryDocuments(ctx, s.db, collection, predicate)
}

// LoadSyncState returns cursors, sequence high-water mark and the newest outbox sequence
func (s *Storage) LoadSyncState(ctx context.Context) (*storage.SyncState, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}

	state := &storage.SyncState{Cursors: make(map[string]uint64)}

	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, keySequence).Scan(&seq)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load sequence: %w", err)
	}
	state.Sequence = uint64(seq)

	var last int64
	err = s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sequence), 0) FROM outbox`).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("failed to load outbox head: %w", err)
	}
	state.LastOwn = uint64(last)

	rows, err := s.db.QueryContext(ctx, `SELECT origin, sequence FROM cursors`)
	if err != nil {
		return nil, fmt.Errorf("failed to load cursors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			origin string
			pos    int64
		)
		if err := rows.Scan(&origin, &pos); err != nil {
			return nil, fmt.Errorf("failed to scan cursor: %w", err)
		}
		state.Cursors[origin] = uint64(pos)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return state, nil
}

// OutboxAfter returns locally produced records with sequence > after
func (s *Storage) OutboxAfter(ctx context.Context, after uint64, limit int) ([]models.ChangeRecord, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}

	query := `SELECT sequence, record FROM outbox WHERE sequence > ? ORDER BY sequence`
	args := []any{int64(after)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read outbox: %w", err)
	}
	defer rows.Close()

	var records []models.ChangeRecord
	for rows.Next() {
		var (
			seq  int64
			data []byte
		)
		if err := rows.Scan(&seq, &data); err != nil {
			return nil, fmt.Errorf("failed to scan outbox record: %w", err)
		}
		r, err := codec.DecodeRecord(data)
		if err != nil {
			return nil, fmt.Errorf("outbox record %d: %w", seq, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryDocuments(ctx context.Context, q querier, collection string, predicate models.Predicate) ([]models.Document, error) {
	if predicate == nil {
		predicate = models.All
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY id`,
		models.CollectionName(collection),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if predicate(doc) {
			docs = append(docs, doc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return docs, nil
}
