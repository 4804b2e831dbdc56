package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore persists records as rows in the objects table, payload
// included as bytea. A single-statement insert makes each record fully
// visible or not at all; readers never observe partial rows.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres opens a PostgreSQL connection pool using the given DSN
// and validates connectivity before returning.
func OpenPostgres(databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	// Conservative pool defaults; payloads ride through in single
	// statements so long-held connections are not expected.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

// DB exposes the underlying pool for migrations at startup.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Insert(ctx context.Context, rec Record) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO objects (id, name, content_type, payload, size_bytes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, rec.Name, rec.ContentType, rec.Payload, len(rec.Payload), time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("postgres insert: %w", err)
	}
	return id, nil
}

// ListAll returns records in insertion order (created_at, then id as a
// tiebreaker for rows created within the same clock tick).
func (s *PostgresStore) ListAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, content_type, payload, created_at
		 FROM objects
		 ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.ContentType, &rec.Payload, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres list scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres list rows: %w", err)
	}
	return records, nil
}

// FindByName returns the oldest record with the given name, matching
// the order ListAll uses.
func (s *PostgresStore) FindByName(ctx context.Context, name string) (*Record, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, content_type, payload, created_at
		 FROM objects
		 WHERE name = $1
		 ORDER BY created_at, id
		 LIMIT 1`,
		name,
	).Scan(&rec.ID, &rec.Name, &rec.ContentType, &rec.Payload, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres find: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
