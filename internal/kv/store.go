package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("not found")

// DB matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pair is one stored key/value entry. Value is the raw JSON document.
type Pair struct {
	Key   string
	Value json.RawMessage
}

// Store is a JSON key-value store over a single Postgres table. Catalog
// records, orders and admin users all live here under prefixed keys.
type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) Set(ctx context.Context, key string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %q: %w", key, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, body)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string, dest any) error {
	var body []byte
	row := s.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key)
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get %q: %w", key, err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return nil
}

// GetByPrefix returns all entries whose key starts with prefix, ordered by key.
// Prefixes are internal constants ("product:", "order:"...), never user input.
func (s *Store) GetByPrefix(ctx context.Context, prefix string) ([]Pair, error) {
	rows, err := s.db.Query(ctx,
		`SELECT key, value FROM kv_store WHERE key LIKE $1 ORDER BY key`,
		prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("get by prefix %q: %w", prefix, err)
	}
	defer rows.Close()

	var pairs []Pair
	for rows.Next() {
		var p Pair
		var body []byte
		if err := rows.Scan(&p.Key, &body); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		p.Value = json.RawMessage(body)
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return pairs, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
