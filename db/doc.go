// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the SQL document store.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq).

# Tables

A single table holds every document:

  - document: one row per path such as users/{uid}/journal/2026-10-16

Columns:

  - path: full document path (primary key)
  - collection: parent collection path, e.g. users/{uid}/activities
  - doc_id: last path segment
  - data: JSON object
  - created_ns: insertion stamp, strictly increasing within a process
  - updated_ns: last write

# Indexes

  - document.(collection, created_ns) for ordered collection listing
*/
package db
