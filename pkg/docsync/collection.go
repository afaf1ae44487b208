package docsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ErrNoIDAccessor is returned when a collection is built without id accessors
var ErrNoIDAccessor = errors.New("docsync: id accessor requires both Get and Set")

// IDAccessor reads and writes the primary key of a T
type IDAccessor[T any] struct {
	Get func(*T) string
	Set func(*T, string)
}

// Collection is a typed view over one collection; documents are stored as JSON
type Collection[T any] struct {
	db   *DB
	ids  IDAccessor[T]
	name string
}

// NewCollection binds T to collection name
func NewCollection[T any](db *DB, name string, ids IDAccessor[T]) (*Collection[T], error) {
	if ids.Get == nil || ids.Set == nil {
		return nil, ErrNoIDAccessor
	}
	return &Collection[T]{db: db, ids: ids, name: name}, nil
}

// Name returns the collection name
func (c *Collection[T]) Name() string {
	return c.name
}

// Insert stores doc. An empty id is filled with a new ULID before encoding,
// so the stored body carries the id.
func (c *Collection[T]) Insert(ctx context.Context, doc *T) (string, error) {
	id := c.ids.Get(doc)
	if id == "" {
		id = ulid.Make().String()
		c.ids.Set(doc, id)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}
	return c.db.InsertWithID(ctx, c.name, id, data)
}

// InsertMany stores docs in one transaction, so they are published as one batch.
// Empty ids are filled like in Insert. Nothing is stored if any insert fails.
func (c *Collection[T]) InsertMany(ctx context.Context, docs []*T) ([]string, error) {
	ids := make([]string, len(docs))
	bodies := make([][]byte, len(docs))
	for i, doc := range docs {
		id := c.ids.Get(doc)
		if id == "" {
			id = ulid.Make().String()
			c.ids.Set(doc, id)
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s document: %w", c.name, err)
		}
		ids[i], bodies[i] = id, data
	}

	err := c.db.update(ctx, func(tx *Tx) error {
		for i := range ids {
			if _, err := tx.InsertWithID(c.name, ids[i], bodies[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpsertMany inserts or replaces docs in one transaction and returns how many were inserted
func (c *Collection[T]) UpsertMany(ctx context.Context, docs []*T) (int, error) {
	bodies := make([][]byte, len(docs))
	for i, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("failed to encode %s document: %w", c.name, err)
		}
		bodies[i] = data
	}

	inserted := 0
	err := c.db.update(ctx, func(tx *Tx) error {
		for i, doc := range docs {
			ok, err := tx.Upsert(c.name, c.ids.Get(doc), bodies[i])
			if err != nil {
				return err
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Update replaces the stored document with the same id
func (c *Collection[T]) Update(ctx context.Context, doc *T) (bool, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}
	return c.db.Update(ctx, c.name, c.ids.Get(doc), data)
}

// Upsert inserts or replaces doc
func (c *Collection[T]) Upsert(ctx context.Context, doc *T) (bool, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}
	return c.db.Upsert(ctx, c.name, c.ids.Get(doc), data)
}

// Delete removes the document with id
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	return c.db.Delete(ctx, c.name, id)
}

// Get returns the document with id or ErrNotFound
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := c.db.Get(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	return c.decode(doc)
}

// Find returns documents accepted by match; nil accepts all
func (c *Collection[T]) Find(ctx context.Context, match func(*T) bool) ([]*T, error) {
	docs, err := c.db.Query(ctx, c.name, nil)
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		v, err := c.decode(doc)
		if err != nil {
			return nil, err
		}
		if match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// DeleteWhere removes documents accepted by match. Undecodable documents are kept.
func (c *Collection[T]) DeleteWhere(ctx context.Context, match func(*T) bool) (int, error) {
	return c.db.DeleteWhere(ctx, c.name, func(doc Document) bool {
		v, err := c.decode(doc)
		return err == nil && match(v)
	})
}

// Count returns the number of stored documents
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	return c.db.Count(ctx, c.name, nil)
}

func (c *Collection[T]) decode(doc Document) (*T, error) {
	var v T
	if err := json.Unmarshal(doc.Data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s document %s: %w", c.name, doc.ID, err)
	}
	return &v, nil
}
