// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/mindmaze/db"
)

// SQLStore keeps documents as JSON rows in SQLite or PostgreSQL.
type SQLStore struct {
	conn    *sql.DB
	dialect string
	broker  *Broker
}

// NewSQLStore creates the schema and takes ownership of conn.
func NewSQLStore(conn *sql.DB, dialect string) (*SQLStore, error) {
	if _, err := db.DriverName(dialect); err != nil {
		return nil, err
	}
	if err := db.CreateSchema(conn); err != nil {
		return nil, err
	}
	return &SQLStore{conn: conn, dialect: dialect, broker: NewBroker()}, nil
}

func (s *SQLStore) Get(ctx context.Context, path string, v any) error {
	if _, _, err := splitDoc(path); err != nil {
		return err
	}

	var raw string
	err := s.conn.QueryRowContext(ctx, `
		SELECT data FROM document WHERE path = $1
	`, path).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (s *SQLStore) Set(ctx context.Context, path string, v any) error {
	collection, id, err := splitDoc(path)
	if err != nil {
		return err
	}
	data, err := marshalObject(v)
	if err != nil {
		return err
	}

	now := stamp()
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO document (path, collection, doc_id, data, created_ns, updated_ns)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (path) DO UPDATE SET data = excluded.data, updated_ns = excluded.updated_ns
	`, path, collection, id, data, now, now)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.broker.Publish(path)
	return nil
}

func (s *SQLStore) Create(ctx context.Context, path string, v any) error {
	collection, id, err := splitDoc(path)
	if err != nil {
		return err
	}
	data, err := marshalObject(v)
	if err != nil {
		return err
	}

	now := stamp()
	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO document (path, collection, doc_id, data, created_ns, updated_ns)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (path) DO NOTHING
	`, path, collection, id, data, now, now)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}

	s.broker.Publish(path)
	return nil
}

func (s *SQLStore) Add(ctx context.Context, collection string, v any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.Create(ctx, collection+"/"+id, v); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLStore) Increment(ctx context.Context, path, field string, delta int64, merge map[string]any) (int64, error) {
	collection, id, err := splitDoc(path)
	if err != nil {
		return 0, err
	}
	extra, err := encode(merge)
	if err != nil {
		return 0, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT data FROM document WHERE path = $1`
	if s.dialect == db.DialectPostgres {
		query += ` FOR UPDATE`
	}

	doc := map[string]any{}
	exists := true
	var raw string
	err = tx.QueryRowContext(ctx, query, path).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		exists = false
	case err != nil:
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return 0, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}

	for k, v := range extra {
		doc[k] = v
	}
	value := toInt64(doc[field]) + delta
	doc[field] = value

	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", path, err)
	}

	now := stamp()
	if exists {
		_, err = tx.ExecContext(ctx, `
			UPDATE document SET data = $1, updated_ns = $2 WHERE path = $3
		`, string(data), now, path)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO document (path, collection, doc_id, data, created_ns, updated_ns)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, path, collection, id, string(data), now, now)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s: %w", path, err)
	}

	s.broker.Publish(path)
	return value, nil
}

func (s *SQLStore) List(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var sb strings.Builder
	args := []any{collection}
	sb.WriteString(`SELECT doc_id, data, created_ns FROM document WHERE collection = $1`)
	if !q.Since.IsZero() {
		args = append(args, q.Since.UnixNano())
		fmt.Fprintf(&sb, ` AND created_ns >= $%d`, len(args))
	}
	if q.Descending {
		sb.WriteString(` ORDER BY created_ns DESC`)
	} else {
		sb.WriteString(` ORDER BY created_ns ASC`)
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	}

	rows, err := s.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			id      string
			raw     string
			created int64
		)
		if err := rows.Scan(&id, &raw, &created); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", collection, err)
		}
		out = append(out, Snapshot{
			ID:      id,
			Created: time.Unix(0, created),
			data:    []byte(raw),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return out, nil
}

func (s *SQLStore) Subscribe(ctx context.Context, path string) (<-chan Event, func(), error) {
	if _, err := split(path); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.broker.Subscribe(ctx, path)
	return ch, cancel, nil
}

func (s *SQLStore) Close() error {
	s.broker.Close()
	return s.conn.Close()
}

// marshalObject encodes v and rejects non-object documents.
func marshalObject(v any) (string, error) {
	m, err := encode(v)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(raw), nil
}
