// Package logstore provides the shared message log: an append-only ordered
// sequence of opaque text records. Records have no identity beyond their
// position and content, so removal is by absolute index against a freshly
// fetched log. Two clients deleting concurrently can race; the last writer
// wins on the raw index and there is no optimistic locking.
package logstore

import (
	"context"
	"errors"
)

var (
	// ErrIndexOutOfRange is returned by RemoveAt when the index does not
	// name an existing record.
	ErrIndexOutOfRange = errors.New("logstore: index out of range")
)

// Store is the full contract against the shared log.
type Store interface {
	// GetAll returns every record in append order.
	GetAll(ctx context.Context) ([]string, error)
	// Append adds one record at the end of the log.
	Append(ctx context.Context, record string) error
	// RemoveAt deletes the record at the given absolute position.
	RemoveAt(ctx context.Context, index int) error
	// Clear removes every record.
	Clear(ctx context.Context) error
}
