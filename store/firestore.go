// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// createdField orders collection listings; it is stripped from decoded data.
const createdField = "_createdNs"

// FirestoreStore maps document paths one-to-one onto Cloud Firestore.
// Subscriptions use native snapshot listeners, so writes made by other
// instances are observed too.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Get(ctx context.Context, path string, v any) error {
	if _, _, err := splitDoc(path); err != nil {
		return err
	}
	snap, err := s.client.Doc(path).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return decodeSnapshot(snap, v)
}

func (s *FirestoreStore) Set(ctx context.Context, path string, v any) error {
	if _, _, err := splitDoc(path); err != nil {
		return err
	}
	m, err := encode(v)
	if err != nil {
		return err
	}

	ref := s.client.Doc(path)
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		var existing map[string]any
		if snap != nil && snap.Exists() {
			existing = snap.Data()
		}
		return tx.Set(ref, keepCreated(m, existing))
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// keepCreated stamps m with the creation time of the document it replaces,
// or with a fresh stamp for a new document, so Set never reorders a listing.
func keepCreated(m, existing map[string]any) map[string]any {
	if raw, ok := existing[createdField]; ok {
		if created := toInt64(raw); created > 0 {
			m[createdField] = created
			return m
		}
	}
	m[createdField] = stamp()
	return m
}

func (s *FirestoreStore) Create(ctx context.Context, path string, v any) error {
	if _, _, err := splitDoc(path); err != nil {
		return err
	}
	m, err := encode(v)
	if err != nil {
		return err
	}
	m[createdField] = stamp()
	_, err = s.client.Doc(path).Create(ctx, m)
	if status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, v any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.Create(ctx, collection+"/"+id, v); err != nil {
		return "", err
	}
	return id, nil
}

func (s *FirestoreStore) Increment(ctx context.Context, path, field string, delta int64, merge map[string]any) (int64, error) {
	if _, _, err := splitDoc(path); err != nil {
		return 0, err
	}
	update, err := encode(merge)
	if err != nil {
		return 0, err
	}
	if update == nil {
		update = map[string]any{}
	}

	ref := s.client.Doc(path)
	var value int64
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		current := int64(0)
		if snap != nil && snap.Exists() {
			if raw, err := snap.DataAt(field); err == nil {
				current = toInt64(raw)
			}
		} else {
			update[createdField] = stamp()
		}
		value = current + delta
		update[field] = value
		return tx.Set(ref, update, firestore.MergeAll)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s.%s: %w", path, field, err)
	}
	return value, nil
}

func (s *FirestoreStore) List(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	query := s.client.Collection(collection).Query
	if !q.Since.IsZero() {
		query = query.Where(createdField, ">=", q.Since.UnixNano())
	}
	dir := firestore.Asc
	if q.Descending {
		dir = firestore.Desc
	}
	query = query.OrderBy(createdField, dir)
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []Snapshot
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", collection, err)
		}
		item, err := toSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Subscribe attaches a Firestore snapshot listener to a document or a collection.
func (s *FirestoreStore) Subscribe(ctx context.Context, path string) (<-chan Event, func(), error) {
	parts, err := split(path)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan Event, 1)
	notify := func() {
		select {
		case ch <- Event{Path: path}:
		default:
		}
	}

	if len(parts)%2 == 0 {
		iter := s.client.Doc(path).Snapshots(ctx)
		go func() {
			defer close(ch)
			defer iter.Stop()
			for {
				if _, err := iter.Next(); err != nil {
					if status.Code(err) != codes.Canceled && ctx.Err() == nil {
						slog.Warn("document listener stopped", "path", path, "error", err)
					}
					return
				}
				notify()
			}
		}()
	} else {
		iter := s.client.Collection(path).Snapshots(ctx)
		go func() {
			defer close(ch)
			defer iter.Stop()
			for {
				if _, err := iter.Next(); err != nil {
					if status.Code(err) != codes.Canceled && ctx.Err() == nil {
						slog.Warn("collection listener stopped", "path", path, "error", err)
					}
					return
				}
				notify()
			}
		}()
	}

	return ch, cancel, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func decodeSnapshot(snap *firestore.DocumentSnapshot, v any) error {
	m := snap.Data()
	delete(m, createdField)
	return decode(m, v)
}

func toSnapshot(snap *firestore.DocumentSnapshot) (Snapshot, error) {
	m := snap.Data()
	created := toInt64(m[createdField])
	delete(m, createdField)

	raw, err := json.Marshal(m)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to encode %s: %w", snap.Ref.ID, err)
	}
	return Snapshot{
		ID:      snap.Ref.ID,
		Created: time.Unix(0, created),
		data:    raw,
	}, nil
}
