// Package store provides durable keyed persistence for object records.
//
// A record's lifecycle is create-once, read-many: there is no update or
// delete path. Names are not unique; the store keeps every record it is
// given and FindByName resolves duplicates by returning the first match
// in the backend's retrieval order.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by FindByName when no record matches the
// requested name.
var ErrNotFound = errors.New("record not found")

// Record is the persisted representation of one uploaded file.
type Record struct {
	ID          uuid.UUID
	Name        string
	ContentType string
	Payload     []byte
	CreatedAt   time.Time
}

// Store is the persistence abstraction holding all object records.
//
// Retrieval order is backend-defined but must be stable and documented:
// the Postgres backend orders by creation time (insertion order), the
// MinIO backend by object key. FindByName returns the first record for
// a name under that same order, so with duplicate names the result is
// deterministic but not necessarily the most recent.
type Store interface {
	// Insert persists a new record atomically and returns its assigned
	// id. The record's ID and CreatedAt fields are set by the store;
	// any caller-provided values are ignored. Duplicate names are
	// accepted.
	Insert(ctx context.Context, rec Record) (uuid.UUID, error)

	// ListAll returns every persisted record with its full payload, in
	// the backend's retrieval order.
	ListAll(ctx context.Context) ([]Record, error)

	// FindByName returns the first record whose name matches, or
	// ErrNotFound.
	FindByName(ctx context.Context, name string) (*Record, error)

	// Ping reports whether the durability layer is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}
