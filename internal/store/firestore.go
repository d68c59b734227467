// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const (
	firestoreDialTimeout = 10 * time.Second
	envEmulatorHost      = "FIRESTORE_EMULATOR_HOST"
)

// Firestore document fields.
const (
	fieldKey     = "key"
	fieldParent  = "parent"
	fieldData    = "data"
	fieldCreated = "createdAt"
	fieldUpdated = "updatedAt"
	fieldSeq     = "seq"
)

// errDuplicate aborts a transaction that found a taken key.
var errDuplicate = errors.New("duplicate key in transaction")

// FirestoreConfig configures the Firestore client.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
	// Prefix is prepended to every collection name, so several sites can share a project.
	Prefix string
}

// FirestoreBackend stores documents in Cloud Firestore, one Firestore
// collection per store collection. The client is created on first use.
type FirestoreBackend struct {
	cfg        FirestoreConfig
	clientOpts []option.ClientOption

	mu     sync.Mutex
	client *firestore.Client
}

// NewFirestoreBackend constructs a backend; no connection is made until the first call.
func NewFirestoreBackend(cfg FirestoreConfig, opts ...option.ClientOption) *FirestoreBackend {
	return &FirestoreBackend{cfg: cfg, clientOpts: opts}
}

func (b *FirestoreBackend) clientFor(ctx context.Context) (*firestore.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		return b.client, nil
	}

	projectID := strings.TrimSpace(b.cfg.ProjectID)
	if projectID == "" {
		return nil, errors.New("firestore: project id is required")
	}

	opts := append([]option.ClientOption(nil), b.clientOpts...)
	if host := b.emulatorHost(); host != "" {
		if os.Getenv(envEmulatorHost) == "" {
			_ = os.Setenv(envEmulatorHost, host)
		}
		opts = append(opts,
			option.WithoutAuthentication(),
			option.WithEndpoint(host),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}

	dialCtx, cancel := context.WithTimeout(ctx, firestoreDialTimeout)
	defer cancel()

	client, err := firestore.NewClient(dialCtx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: create client: %w", err)
	}
	b.client = client
	return client, nil
}

func (b *FirestoreBackend) emulatorHost() string {
	if h := strings.TrimSpace(b.cfg.EmulatorHost); h != "" {
		return h
	}
	return strings.TrimSpace(os.Getenv(envEmulatorHost))
}

func (b *FirestoreBackend) collection(ctx context.Context, name string) (*firestore.CollectionRef, error) {
	client, err := b.clientFor(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(b.cfg.Prefix + name), nil
}

// Get fetches a document by id.
func (b *FirestoreBackend) Get(ctx context.Context, collection, id string) (Record, error) {
	col, err := b.collection(ctx, collection)
	if err != nil {
		return Record{}, err
	}
	snap, err := col.Doc(id).Get(ctx)
	if err != nil {
		return Record{}, wrapFirestoreError(collection+".get", err)
	}
	return recordFromSnapshot(snap)
}

// GetByKey fetches a document by its unique key.
func (b *FirestoreBackend) GetByKey(ctx context.Context, collection, key string) (Record, error) {
	col, err := b.collection(ctx, collection)
	if err != nil {
		return Record{}, err
	}
	recs, err := queryRecords(ctx, col.Where(fieldKey, "==", key).Limit(1), collection+".getByKey")
	if err != nil {
		return Record{}, err
	}
	if len(recs) == 0 {
		return Record{}, ErrNotFound
	}
	return recs[0], nil
}

// List returns every document of a collection in insertion order.
func (b *FirestoreBackend) List(ctx context.Context, collection string) ([]Record, error) {
	col, err := b.collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	return queryRecords(ctx, col.OrderBy(fieldSeq, firestore.Asc), collection+".list")
}

// ListByParent returns the documents owned by parent in insertion order.
// Ordering is applied in memory so the query needs no composite index.
func (b *FirestoreBackend) ListByParent(ctx context.Context, collection, parent string) ([]Record, error) {
	col, err := b.collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	recs, err := queryRecords(ctx, col.Where(fieldParent, "==", parent), collection+".listByParent")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
	return recs, nil
}

// Insert creates a document, enforcing key uniqueness inside a transaction.
func (b *FirestoreBackend) Insert(ctx context.Context, collection string, rec Record) error {
	client, err := b.clientFor(ctx)
	if err != nil {
		return err
	}
	col := client.Collection(b.cfg.Prefix + collection)
	ref := col.Doc(rec.ID)

	err = client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if rec.Key != "" {
			taken, err := keyTaken(tx, col, rec.Key, "")
			if err != nil {
				return err
			}
			if taken {
				return errDuplicate
			}
		}
		return tx.Create(ref, recordFields(rec))
	})
	return mapTxError(collection+".insert", err)
}

// Update replaces an existing document.
func (b *FirestoreBackend) Update(ctx context.Context, collection string, rec Record) error {
	client, err := b.clientFor(ctx)
	if err != nil {
		return err
	}
	col := client.Collection(b.cfg.Prefix + collection)
	ref := col.Doc(rec.ID)

	err = client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if rec.Key != "" {
			taken, err := keyTaken(tx, col, rec.Key, rec.ID)
			if err != nil {
				return err
			}
			if taken {
				return errDuplicate
			}
		}
		existing, err := recordFromSnapshot(snap)
		if err != nil {
			return err
		}
		rec.CreatedAt = existing.CreatedAt
		fields := recordFields(rec)
		fields[fieldSeq] = snap.Data()[fieldSeq]
		return tx.Set(ref, fields)
	})
	return mapTxError(collection+".update", err)
}

// Delete removes a document.
func (b *FirestoreBackend) Delete(ctx context.Context, collection, id string) error {
	col, err := b.collection(ctx, collection)
	if err != nil {
		return err
	}
	if _, err := col.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return wrapFirestoreError(collection+".delete", err)
	}
	return nil
}

// Ping verifies the client can reach Firestore.
func (b *FirestoreBackend) Ping(ctx context.Context) error {
	col, err := b.collection(ctx, "_health")
	if err != nil {
		return err
	}
	iter := col.Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return wrapFirestoreError("ping", err)
	}
	return nil
}

// Close releases the client.
func (b *FirestoreBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == nil {
		return nil
	}
	err := b.client.Close()
	b.client = nil
	return err
}

func keyTaken(tx *firestore.Transaction, col *firestore.CollectionRef, key, selfID string) (bool, error) {
	snaps, err := tx.Documents(col.Where(fieldKey, "==", key).Limit(2)).GetAll()
	if err != nil {
		return false, err
	}
	for _, s := range snaps {
		if s.Ref.ID != selfID {
			return true, nil
		}
	}
	return false, nil
}

func queryRecords(ctx context.Context, q firestore.Query, op string) ([]Record, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []Record
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, wrapFirestoreError(op, err)
		}
		rec, err := recordFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func recordFields(rec Record) map[string]any {
	return map[string]any{
		fieldKey:     rec.Key,
		fieldParent:  rec.Parent,
		fieldData:    string(rec.Data),
		fieldCreated: rec.CreatedAt.UTC(),
		fieldUpdated: rec.UpdatedAt.UTC(),
		fieldSeq:     rec.CreatedAt.UnixNano(),
	}
}

func recordFromSnapshot(snap *firestore.DocumentSnapshot) (Record, error) {
	var doc struct {
		Key       string    `firestore:"key"`
		Parent    string    `firestore:"parent"`
		Data      string    `firestore:"data"`
		CreatedAt time.Time `firestore:"createdAt"`
		UpdatedAt time.Time `firestore:"updatedAt"`
	}
	if err := snap.DataTo(&doc); err != nil {
		return Record{}, fmt.Errorf("firestore: decode %s: %w", snap.Ref.ID, err)
	}
	return Record{
		ID:        snap.Ref.ID,
		Key:       doc.Key,
		Parent:    doc.Parent,
		Data:      []byte(doc.Data),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func mapTxError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errDuplicate) {
		return ErrDuplicateKey
	}
	return wrapFirestoreError(op, err)
}

// wrapFirestoreError maps gRPC status codes onto store errors. Context
// cancellations pass through unchanged.
func wrapFirestoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrDuplicateKey
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}
	return fmt.Errorf("firestore %s: %w", op, err)
}
