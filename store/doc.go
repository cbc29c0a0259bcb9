// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists per-user documents behind one small interface.

Every record lives under users/{uid}/..., addressed the way Firestore
addresses documents: odd segment counts name collections, even counts name
documents.

	path := store.UserPath(uid, store.Journal, "2026-10-16")
	err := s.Create(ctx, path, entry) // store.ErrExists if already written today

# Backends

  - SQLStore: SQLite (modernc.org/sqlite) or PostgreSQL (lib/pq), one JSON row per document
  - FirestoreStore: Cloud Firestore, paths mapped one-to-one
  - MongoStore: MongoDB, one collection keyed by path

Values are encoded through their JSON tags, so handlers share one set of
model types across backends.

# Ordering

List returns a collection in creation order (or reversed with
Query.Descending). Creation stamps are strictly increasing within a process.

# Change Notifications

Subscribe delivers an Event after each write to a document or to any
document directly inside a collection. SQL and Mongo backends use the
in-process Broker; Firestore uses native snapshot listeners. Events carry
no data; subscribers re-read.

	events, cancel, err := s.Subscribe(ctx, store.UserPath(uid, store.Settings, "preferences"))
	defer cancel()
*/
package store
