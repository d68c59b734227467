// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLiteBackend keeps documents in the migrated documents table.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend wraps an open, migrated database.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// DB returns the underlying connection, shared with the session store.
func (b *SQLiteBackend) DB() *sql.DB {
	return b.db
}

const selectColumns = `SELECT id, COALESCE(doc_key, ''), parent, data, created_at, updated_at FROM documents`

// Get fetches a document by id.
func (b *SQLiteBackend) Get(ctx context.Context, collection, id string) (Record, error) {
	row := b.db.QueryRowContext(ctx, selectColumns+` WHERE collection = ? AND id = ?`, collection, id)
	return scanRecord(row)
}

// GetByKey fetches a document by its unique key.
func (b *SQLiteBackend) GetByKey(ctx context.Context, collection, key string) (Record, error) {
	row := b.db.QueryRowContext(ctx, selectColumns+` WHERE collection = ? AND doc_key = ?`, collection, key)
	return scanRecord(row)
}

// List returns every document of a collection in insertion order.
func (b *SQLiteBackend) List(ctx context.Context, collection string) ([]Record, error) {
	rows, err := b.db.QueryContext(ctx, selectColumns+` WHERE collection = ? ORDER BY rowid`, collection)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	return scanRecords(rows)
}

// ListByParent returns the documents owned by parent in insertion order.
func (b *SQLiteBackend) ListByParent(ctx context.Context, collection, parent string) ([]Record, error) {
	rows, err := b.db.QueryContext(ctx, selectColumns+` WHERE collection = ? AND parent = ? ORDER BY rowid`, collection, parent)
	if err != nil {
		return nil, fmt.Errorf("listing %s by parent: %w", collection, err)
	}
	return scanRecords(rows)
}

// Insert stores a new document.
func (b *SQLiteBackend) Insert(ctx context.Context, collection string, rec Record) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, doc_key, parent, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		collection, rec.ID, nullableKey(rec.Key), rec.Parent, string(rec.Data),
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("inserting into %s: %w", collection, err)
	}
	return nil
}

// Update replaces an existing document.
func (b *SQLiteBackend) Update(ctx context.Context, collection string, rec Record) error {
	res, err := b.db.ExecContext(ctx,
		`UPDATE documents SET doc_key = ?, parent = ?, data = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		nullableKey(rec.Key), rec.Parent, string(rec.Data), formatTime(rec.UpdatedAt), collection, rec.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("updating %s: %w", collection, err)
	}
	return expectOneRow(res)
}

// Delete removes a document.
func (b *SQLiteBackend) Delete(ctx context.Context, collection, id string) error {
	res, err := b.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", collection, err)
	}
	return expectOneRow(res)
}

// Ping checks the database connection.
func (b *SQLiteBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec              Record
		data             string
		created, updated string
	)
	if err := row.Scan(&rec.ID, &rec.Key, &rec.Parent, &data, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("scanning document: %w", err)
	}
	rec.Data = []byte(data)
	rec.CreatedAt = parseTime(created)
	rec.UpdatedAt = parseTime(updated)
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return out, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableKey(key string) any {
	if key == "" {
		return nil
	}
	return key
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed: UNIQUE")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
