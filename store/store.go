// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrExists      = errors.New("document already exists")
	ErrInvalidPath = errors.New("invalid document path")
)

// Store is a per-user document store addressed by slash-separated paths.
// Document paths have an even number of segments, collection paths an odd one.
type Store interface {
	// Get decodes the document at path into v. Returns ErrNotFound.
	Get(ctx context.Context, path string, v any) error
	// Set creates or replaces the document at path.
	Set(ctx context.Context, path string, v any) error
	// Create writes the document only if it does not exist yet. Returns ErrExists.
	Create(ctx context.Context, path string, v any) error
	// Add appends a document with a generated ID to a collection.
	Add(ctx context.Context, collection string, v any) (string, error)
	// Increment adds delta to an integer field, creating the document when
	// absent, merges the extra fields and returns the new value.
	Increment(ctx context.Context, path, field string, delta int64, merge map[string]any) (int64, error)
	// List returns the documents of a collection in creation order.
	List(ctx context.Context, collection string, q Query) ([]Snapshot, error)
	// Subscribe notifies on every write to the document or collection at path.
	// The returned cancel func must be called to release the subscription.
	Subscribe(ctx context.Context, path string) (<-chan Event, func(), error)
	Close() error
}

// Query narrows a List call.
type Query struct {
	Descending bool
	Since      time.Time
	Limit      int
}

// Snapshot is one listed document.
type Snapshot struct {
	ID      string
	Created time.Time
	data    []byte
}

// DataTo decodes the snapshot into v.
func (s Snapshot) DataTo(v any) error {
	if err := json.Unmarshal(s.data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", s.ID, err)
	}
	return nil
}

// Event reports a write under a subscribed path.
type Event struct {
	Path string
}

// encode turns any JSON-tagged value into a generic field map so every
// backend stores the same shape.
func encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("document must be an object: %w", err)
	}
	return m, nil
}

// decode converts a backend field map into v via its JSON tags.
func decode(m map[string]any, v any) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to re-encode document: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

var (
	stampMu   sync.Mutex
	lastStamp int64
)

// stamp returns a strictly increasing nanosecond timestamp so that documents
// written within the same clock tick keep their insertion order.
func stamp() int64 {
	stampMu.Lock()
	defer stampMu.Unlock()
	now := time.Now().UnixNano()
	if now <= lastStamp {
		now = lastStamp + 1
	}
	lastStamp = now
	return now
}

// toInt64 normalizes numeric values produced by the different drivers.
func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}
