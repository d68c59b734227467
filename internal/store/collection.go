// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightpixel/agencyweb/internal/model"
)

// Collection gives typed access to one collection of a Backend.
// P is the pointer type of T and must embed model.Meta.
type Collection[T any, P interface {
	*T
	model.Document
}] struct {
	backend Backend
	name    string
	key     func(P) string
	parent  func(P) string
	now     func() time.Time
}

// CollectionOption customises a Collection.
type CollectionOption[T any, P interface {
	*T
	model.Document
}] func(*Collection[T, P])

// WithKey sets the function returning a document's unique key.
func WithKey[T any, P interface {
	*T
	model.Document
}](fn func(P) string) CollectionOption[T, P] {
	return func(c *Collection[T, P]) { c.key = fn }
}

// WithParent sets the function returning a document's owner id.
func WithParent[T any, P interface {
	*T
	model.Document
}](fn func(P) string) CollectionOption[T, P] {
	return func(c *Collection[T, P]) { c.parent = fn }
}

// NewCollection binds a typed collection to a backend.
func NewCollection[T any, P interface {
	*T
	model.Document
}](backend Backend, name string, opts ...CollectionOption[T, P]) *Collection[T, P] {
	c := &Collection[T, P]{backend: backend, name: name, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the collection name.
func (c *Collection[T, P]) Name() string { return c.name }

// Get fetches a document by id.
func (c *Collection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	rec, err := c.backend.Get(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	return c.decode(rec)
}

// GetByKey fetches a document by its unique key.
func (c *Collection[T, P]) GetByKey(ctx context.Context, key string) (*T, error) {
	rec, err := c.backend.GetByKey(ctx, c.name, key)
	if err != nil {
		return nil, err
	}
	return c.decode(rec)
}

// List returns every document in insertion order.
func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	recs, err := c.backend.List(ctx, c.name)
	if err != nil {
		return nil, err
	}
	return c.decodeAll(recs)
}

// ListByParent returns the documents owned by parent in insertion order.
func (c *Collection[T, P]) ListByParent(ctx context.Context, parent string) ([]T, error) {
	recs, err := c.backend.ListByParent(ctx, c.name, parent)
	if err != nil {
		return nil, err
	}
	return c.decodeAll(recs)
}

// Create stores a new document. An empty id is replaced with a UUID and
// the timestamps are set.
func (c *Collection[T, P]) Create(ctx context.Context, doc *T) error {
	p := P(doc)
	meta := p.Base()
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	now := c.now().UTC()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	rec, err := c.encode(p)
	if err != nil {
		return err
	}
	return c.backend.Insert(ctx, c.name, rec)
}

// Update replaces a stored document and bumps its updatedAt.
func (c *Collection[T, P]) Update(ctx context.Context, doc *T) error {
	p := P(doc)
	meta := p.Base()
	if meta.ID == "" {
		return ErrNotFound
	}
	meta.UpdatedAt = c.now().UTC()

	rec, err := c.encode(p)
	if err != nil {
		return err
	}
	return c.backend.Update(ctx, c.name, rec)
}

// Delete removes a document by id.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	return c.backend.Delete(ctx, c.name, id)
}

func (c *Collection[T, P]) encode(p P) (Record, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return Record{}, fmt.Errorf("encoding %s document: %w", c.name, err)
	}
	meta := p.Base()
	rec := Record{
		ID:        meta.ID,
		Data:      data,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
	}
	if c.key != nil {
		rec.Key = c.key(p)
	}
	if c.parent != nil {
		rec.Parent = c.parent(p)
	}
	return rec, nil
}

func (c *Collection[T, P]) decode(rec Record) (*T, error) {
	doc := new(T)
	if err := json.Unmarshal(rec.Data, doc); err != nil {
		return nil, fmt.Errorf("decoding %s document %s: %w", c.name, rec.ID, err)
	}
	P(doc).Base().ID = rec.ID
	return doc, nil
}

func (c *Collection[T, P]) decodeAll(recs []Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		doc, err := c.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, nil
}
