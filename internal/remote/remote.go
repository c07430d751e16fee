// Package remote defines the collection contract the calendar syncs
// against, plus the batch operation and error types shared by every
// backend implementation.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/sidelinehq/courtside/internal/domain"
)

// DefaultChunkSize caps how many operations a single batch round trip
// may carry. Stores downstream reject oversized multi-writes, so big
// batches are split before they leave the process.
const DefaultChunkSize = 400

var (
	// ErrUnavailable marks any transport-level failure: connection
	// refused, timeout, server error. The caller's local state is
	// always intact when it comes back, so the call can be retried.
	ErrUnavailable = errors.New("remote collection unavailable")

	// ErrNotFound is returned for updates and deletes against an ID
	// the collection does not hold.
	ErrNotFound = errors.New("item not found")
)

// Collection is the remote document store holding the calendar.
// One document per calendar item, keyed by item ID.
type Collection interface {
	// FetchAll returns every item document. The expensive call: each
	// invocation is a full collection read, so callers are expected
	// to hit it rarely and cache the result.
	FetchAll(ctx context.Context) ([]domain.CalendarItem, error)

	// Create writes a new document and returns its ID. When the item
	// carries no ID one is assigned.
	Create(ctx context.Context, item domain.CalendarItem) (string, error)

	// Update overwrites the whole document for id.
	Update(ctx context.Context, id string, item domain.CalendarItem) error

	// Delete removes the document for id.
	Delete(ctx context.Context, id string) error

	// BatchWrite applies a mixed set of operations, split into chunks
	// of at most the configured size. Each chunk is atomic where the
	// backend allows it; distinct chunks are not atomic relative to
	// each other.
	BatchWrite(ctx context.Context, ops []Op) error

	// Ping reports backend reachability.
	Ping(ctx context.Context) error
}

// OpKind discriminates batch operations.
type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// Op is one entry of a batch write.
type Op struct {
	Kind OpKind
	// ID addresses the document for OpUpdate and OpDelete. Optional
	// for OpCreate: empty means the backend assigns one.
	ID   string
	Item domain.CalendarItem
}

// ChunkOps splits ops into runs of at most size operations, preserving
// order. A size below 1 falls back to DefaultChunkSize.
func ChunkOps(ops []Op, size int) [][]Op {
	if size < 1 {
		size = DefaultChunkSize
	}
	if len(ops) == 0 {
		return nil
	}
	chunks := make([][]Op, 0, (len(ops)+size-1)/size)
	for start := 0; start < len(ops); start += size {
		end := min(start+size, len(ops))
		chunks = append(chunks, ops[start:end])
	}
	return chunks
}

// Unavailable wraps a transport failure so errors.Is(err,
// ErrUnavailable) holds while the original cause stays reachable
// through Unwrap.
func Unavailable(op string, err error) error {
	return &unavailableError{op: op, err: err}
}

type unavailableError struct {
	op  string
	err error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("failed to %s: %s: %v", e.op, ErrUnavailable, e.err)
}

func (e *unavailableError) Is(target error) bool { return target == ErrUnavailable }

func (e *unavailableError) Unwrap() error { return e.err }
