// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store persists site documents. A Backend stores raw JSON records
// grouped by collection; Collection adds typed access on top of it and Store
// bundles the collections the site uses.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("store: document not found")
	// ErrDuplicateKey is returned when a unique key is already taken in a collection.
	ErrDuplicateKey = errors.New("store: duplicate key")
)

// Record is a stored document.
type Record struct {
	ID        string
	Key       string // unique within the collection when non-empty
	Parent    string // owning document id, empty for top-level documents
	Data      []byte // JSON encoded document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Backend is a document database. List methods return records in insertion order.
type Backend interface {
	Get(ctx context.Context, collection, id string) (Record, error)
	GetByKey(ctx context.Context, collection, key string) (Record, error)
	List(ctx context.Context, collection string) ([]Record, error)
	ListByParent(ctx context.Context, collection, parent string) ([]Record, error)
	Insert(ctx context.Context, collection string, rec Record) error
	Update(ctx context.Context, collection string, rec Record) error
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
	Close() error
}
