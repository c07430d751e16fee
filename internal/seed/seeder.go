package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/logger"
	"github.com/sidelinehq/courtside/internal/remote"
)

// Seeder pushes calendar items into the remote collection in chunked
// batches. It talks to the collection directly: seeding is an
// operational task, the service's cache never sees it.
type Seeder struct {
	collection remote.Collection
	log        logger.Logger
	chunk      int
}

func NewSeeder(collection remote.Collection, log logger.Logger, chunkSize int) *Seeder {
	if chunkSize < 1 {
		chunkSize = remote.DefaultChunkSize
	}
	return &Seeder{
		collection: collection,
		log:        log,
		chunk:      chunkSize,
	}
}

// Wipe deletes every document currently in the collection. Returns
// how many documents were deleted before any failure.
func (s *Seeder) Wipe(ctx context.Context) (int, error) {
	items, err := s.collection.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list collection before wipe: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	ops := make([]remote.Op, len(items))
	for n, it := range items {
		ops[n] = remote.Op{Kind: remote.OpDelete, ID: it.ID}
	}

	deleted := 0
	for _, chunk := range remote.ChunkOps(ops, s.chunk) {
		if err := s.collection.BatchWrite(ctx, chunk); err != nil {
			return deleted, fmt.Errorf("wipe stopped after %d deletes: %w", deleted, err)
		}
		deleted += len(chunk)
	}

	s.log.Info("collection wiped", logger.Int("deleted", deleted))
	return deleted, nil
}

// Seed writes the items as new documents. Items without IDs get one
// assigned. Returns how many documents were written before any
// failure.
func (s *Seeder) Seed(ctx context.Context, items []domain.CalendarItem) (int, error) {
	ops := make([]remote.Op, len(items))
	for n, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		ops[n] = remote.Op{Kind: remote.OpCreate, ID: item.ID, Item: item}
	}

	written := 0
	for _, chunk := range remote.ChunkOps(ops, s.chunk) {
		if err := s.collection.BatchWrite(ctx, chunk); err != nil {
			return written, fmt.Errorf("seed stopped after %d writes: %w", written, err)
		}
		written += len(chunk)
	}

	s.log.Info("collection seeded", logger.Int("items", written))
	return written, nil
}
